// Package backend renders filters to text by backend name. It is the single
// switch the CLI and the scenario harness share.
package backend

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/render/elastic"
	"github.com/roach88/filterql/internal/render/lucene"
	"github.com/roach88/filterql/internal/render/mongo"
	"github.com/roach88/filterql/internal/render/qdrant"
	"github.com/roach88/filterql/internal/render/sql"
	"github.com/roach88/filterql/internal/render/weaviate"
)

// Backend names.
const (
	Lucene   = "lucene"
	SQL      = "sql"
	Mongo    = "mongo"
	Elastic  = "elastic"
	Qdrant   = "qdrant"
	Weaviate = "weaviate"
)

var names = []string{Lucene, SQL, Mongo, Elastic, Qdrant, Weaviate}

// Names lists the supported backends.
func Names() []string {
	return append([]string(nil), names...)
}

// UnknownBackendError is returned for a backend name not in Names.
type UnknownBackendError struct {
	Name string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown backend %q: must be one of %s", e.Name, strings.Join(names, ", "))
}

// Options tunes backend output.
type Options struct {
	// ParentFilter is the Lucene block-join parent query for nested-scope
	// leaves. Empty disables block joins.
	ParentFilter string
}

// Render renders f for the named backend.
//
// Output per backend: lucene a query string; sql a WHERE expression and a
// "-- params:" line; mongo relaxed extended JSON; elastic, qdrant and
// weaviate indented JSON.
func Render(name string, f filter.Filter, opts Options) (string, error) {
	switch name {
	case Lucene:
		return lucene.New(lucene.WithParentFilter(opts.ParentFilter)).Render(f)

	case SQL:
		where, params, err := sql.NewCompiler().Where(f)
		if err != nil {
			return "", err
		}
		if params == nil {
			params = []any{}
		}
		encoded, err := json.Marshal(params)
		if err != nil {
			return "", fmt.Errorf("encode params: %w", err)
		}
		return where + "\n-- params: " + string(encoded), nil

	case Mongo:
		doc, err := mongo.Render(f)
		if err != nil {
			return "", err
		}
		out, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return "", fmt.Errorf("encode mongo filter: %w", err)
		}
		return string(out), nil

	case Elastic:
		q, err := elastic.Render(f)
		if err != nil {
			return "", err
		}
		return indentJSON(q)

	case Qdrant:
		qf, err := qdrant.Render(f)
		if err != nil {
			return "", err
		}
		out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(qf)
		if err != nil {
			return "", fmt.Errorf("encode qdrant filter: %w", err)
		}
		return string(out), nil

	case Weaviate:
		w, err := weaviate.Build(f)
		if err != nil {
			return "", err
		}
		if w == nil {
			return "null", nil
		}
		return indentJSON(w)

	default:
		return "", &UnknownBackendError{Name: name}
	}
}

func indentJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	return string(out), nil
}
