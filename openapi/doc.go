// Package openapi imports the schemas of an OpenAPI 3.0/3.1 document (or a
// JSON Schema document with $defs/definitions) into a schemawire registry.
//
// Property order is taken from the document, so encoding follows the order
// the API author declared. Constructs without an exact counterpart in the
// type model are approximated and reported through Diag.
//
//	reg, diag, err := openapi.ImportFile("api.github.com.yaml", openapi.Options{})
//	if err != nil {
//		return err
//	}
//	for _, w := range diag.Warnings() {
//		log.Print(w)
//	}
package openapi
