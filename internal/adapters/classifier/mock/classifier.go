// Package mock es el clasificador de razas sin modelo real: elige dos razas del
// catálogo a partir del hash de la imagen. Misma imagen => mismo resultado.
package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"dog-breed-social/internal/domain/breeds"
	"dog-breed-social/internal/ports/classifier"
)

// Catalog da los nombres candidatos.
type Catalog interface {
	List(ctx context.Context) ([]breeds.Breed, error)
}

type Classifier struct {
	catalog Catalog
}

func New(catalog Catalog) *Classifier {
	return &Classifier{catalog: catalog}
}

func (c *Classifier) Classify(ctx context.Context, image []byte, contentType string) ([]classifier.Prediction, error) {
	if len(image) == 0 {
		return nil, errors.New("mock classifier: empty image")
	}
	list, err := c.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.New("mock classifier: empty catalogue")
	}

	sum := sha256.Sum256(image)
	h1 := binary.BigEndian.Uint64(sum[0:8])
	h2 := binary.BigEndian.Uint64(sum[8:16])

	primary := list[h1%uint64(len(list))].Name
	if len(list) == 1 {
		return []classifier.Prediction{{Breed: primary, Percentage: 100, Confidence: 0.9}}, nil
	}

	// Segunda raza distinta de la primera.
	j := (h1%uint64(len(list)) + 1 + h2%uint64(len(list)-1)) % uint64(len(list))
	secondary := list[j].Name

	// 55..95 en pasos de 5, el resto para la segunda.
	pct := float64(55 + 5*(sum[16]%9))
	return []classifier.Prediction{
		{Breed: primary, Percentage: pct, Confidence: 0.9},
		{Breed: secondary, Percentage: 100 - pct, Confidence: 0.8},
	}, nil
}
