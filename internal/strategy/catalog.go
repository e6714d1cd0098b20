package strategy

import (
	"bytes"
	_ "embed"
	"io"

	"github.com/jfk9w-go/flu"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var defaultCatalog []byte

// Catalog is the ordered list of strategy messages delivered to every subscriber.
type Catalog []string

func DefaultCatalog() Catalog {
	catalog, err := ParseCatalog(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(err)
	}

	return catalog
}

func LoadCatalog(file flu.File) (Catalog, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", file)
	}

	defer flu.CloseQuietly(reader)
	return ParseCatalog(reader)
}

func ParseCatalog(reader io.Reader) (Catalog, error) {
	var document struct {
		Strategies []string `yaml:"strategies"`
	}

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&document); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	if len(document.Strategies) == 0 {
		return nil, errors.Wrap(ErrValidation, "catalog is empty")
	}

	for i, body := range document.Strategies {
		if body == "" {
			return nil, errors.Wrapf(ErrValidation, "strategy %d is empty", i)
		}
	}

	return document.Strategies, nil
}

func (c Catalog) Len() int {
	return len(c)
}
