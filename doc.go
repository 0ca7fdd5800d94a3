// Package blueprint implements a reactive form engine: a Form holds an
// original and a current state tree, tracks dirty and touched flags per
// JSON Pointer path, validates fields through pluggable rules, and builds
// submit payloads through registered getters.
//
// State trees are plain map[string]any values addressed by JSON Pointer
// paths such as "/items/2/price". A nil value is an explicit null; a
// missing key is undefined. Arrays that need stable identity across
// insertions and removals are held as *TrackedArray, whose elements keep
// their dirty and touched attribution when their index shifts.
//
// A minimal form:
//
//	form := blueprint.NewForm(blueprint.State{
//		"name":  "",
//		"email": nil,
//	},
//		blueprint.WithName("user"),
//		blueprint.WithRules(map[string]blueprint.FieldRules{
//			"/name": {Rules: []blueprint.Rule{rules.Required("name is required")}},
//		}),
//	)
//	form.Set("/name", "Alice")
//	payload := form.BuildPayload()
//
// Payload construction walks the current state and consults registered
// field, child, and appended getters. A getter returning Omit drops its
// key from the payload entirely.
//
// Persistence, transport, pagination, and route resource injection live in
// the storage, transport, paginate, and resource subpackages.
package blueprint
