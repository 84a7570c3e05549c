// Package harness runs query conformance scenarios.
//
// A scenario binds a schema, an optional set of fixture documents and a list
// of query cases. Each case is parsed, its filter is executed against the
// documents in an in-memory SQLite store, and the outcome is checked against
// the case's expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	schema: ../schemas/articles.yaml
//	now: "2024-03-15T10:30:45Z"
//	parent_filter: "content_type:parent"
//	documents:
//	  - id: a1
//	    fields: { title: go, price: "5" }
//	cases:
//	  - query: "title:go price:[* TO 10]"
//	    expect:
//	      filter: 'and(eq(title, "go"), lt(price, 10))'
//	      text: ""
//	      matches: [a1]
//	      render:
//	        lucene: "(title:go AND price:[* TO 10])"
//	  - query: "titel:go"
//	    strict: true
//	    expect:
//	      error: unknown field
//
// Paths are relative to the scenario file. Unknown keys are rejected.
//
// # Expectations
//
//   - filter: the String form of the combined filter, "" for none
//   - text: the residual free text
//   - error: a substring of the parse error; excludes every other check
//   - matches: the ids of matching documents, in id order
//   - render: backend name to rendered output, or to the render error
//
// Omitted expectations are not checked.
//
// # Deterministic Testing
//
// Every scenario runs against a fixed clock (the scenario's now, or
// testutil.DefaultNow) and a fresh in-memory database, so results can be
// compared against golden files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/articles.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
