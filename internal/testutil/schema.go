package testutil

import "github.com/roach88/filterql/internal/schema"

// Articles returns the registry most package tests bind against:
//
//	title     text
//	price     numeric
//	created   date
//	tags      text, multivalue
//	location  geo
//	author    text, nested
func Articles() *schema.MapRegistry {
	return schema.MustMapRegistry("articles",
		schema.FieldDescriptor{Name: "title", Kind: schema.KindText},
		schema.FieldDescriptor{Name: "price", Kind: schema.KindNumeric},
		schema.FieldDescriptor{Name: "created", Kind: schema.KindDate},
		schema.FieldDescriptor{Name: "tags", Kind: schema.KindText, MultiValue: true},
		schema.FieldDescriptor{Name: "location", Kind: schema.KindGeo},
		schema.FieldDescriptor{Name: "author", Kind: schema.KindText, Nested: true},
	)
}
