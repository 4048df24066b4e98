package mock

import (
	"context"
	"testing"

	"dog-breed-social/internal/adapters/storage/seed"
	"dog-breed-social/internal/domain/breeds"
)

type sliceCatalog []breeds.Breed

func (s sliceCatalog) List(ctx context.Context) ([]breeds.Breed, error) { return s, nil }

func TestClassify_DeterministicAndComposes(t *testing.T) {
	c := New(sliceCatalog(seed.Breeds()))
	ctx := context.Background()

	for _, img := range []string{"a", "b", "some png bytes", "another dog"} {
		first, err := c.Classify(ctx, []byte(img), "image/png")
		if err != nil {
			t.Fatalf("Classify(%q): %v", img, err)
		}
		again, _ := c.Classify(ctx, []byte(img), "image/png")
		if len(first) != 2 || first[0] != again[0] || first[1] != again[1] {
			t.Fatalf("expected deterministic 2 results for %q, got %#v vs %#v", img, first, again)
		}
		if first[0].Breed == first[1].Breed {
			t.Fatalf("expected distinct breeds, got %#v", first)
		}
		if first[0].Percentage+first[1].Percentage != 100 || first[0].Percentage < first[1].Percentage {
			t.Fatalf("percentages must sum to 100 with the primary first: %#v", first)
		}
	}
}

func TestClassify_SingleBreedCatalogue(t *testing.T) {
	c := New(sliceCatalog{{ID: 1, Name: "Beagle"}})
	out, err := c.Classify(context.Background(), []byte("x"), "image/jpeg")
	if err != nil || len(out) != 1 || out[0].Percentage != 100 {
		t.Fatalf("unexpected: %#v err=%v", out, err)
	}
}
