// Package harness runs conformance scenarios against the search engine.
//
// A scenario loads records into a fresh in-memory store and runs a list of
// cases. Each case is searched twice: once through the engine, which
// compiles what it can to SQL, and once by matching every stored record in
// memory. Both must select the case's expected ids.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	records:
//	  - { title: Song, year: 1990 }
//	  - { title: Other, year: 2000, mood: calm }
//	cases:
//	  - name: nineties
//	    where: ["numeric:year=1990..1999"]
//	    expect_ids: [1]
//	    expect_post_filter: false
//	  - name: tree
//	    query:
//	      or:
//	        - term: "match:title=Song"
//	        - term: "mood=calm"
//	    sort: ["year:desc"]
//	    expect_ids: [2, 1]
//
// Records get ids 1, 2, ... in file order unless they set "id". Terms use
// the "kind:field=pattern" syntax of the CLI's --where flag. When a case
// sorts, expect_ids is compared in order.
//
// # Deterministic Testing
//
// Every search of a scenario uses the fixed search id from search_id (or
// "test-search-default"), so traces are identical across runs and can be
// compared with golden files.
package harness
