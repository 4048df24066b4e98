package classifier

import "context"

// Prediction es un candidato de raza devuelto por el modelo.
type Prediction struct {
	Breed      string
	Percentage float64 // 0..100
	Confidence float64 // 0..1
}

// Classifier es la llamada de IA (mockeada en este repo).
type Classifier interface {
	Classify(ctx context.Context, image []byte, contentType string) ([]Prediction, error)
}
