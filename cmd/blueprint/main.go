// Command blueprint is a small demonstration of the form engine: it builds a
// form with rules and payload getters, simulates a few edits, and prints the
// resulting payload and flags.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	blueprint "github.com/Hank-IT/blueprint-core"
	"github.com/Hank-IT/blueprint-core/rules"
	"github.com/Hank-IT/blueprint-core/storage"
)

func main() {
	logger := slog.New(slogmulti.Fanout(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))
	slog.SetDefault(logger)

	driver := storage.NewDriver(storage.NewMemoryKV(), nil)

	form := blueprint.NewForm(blueprint.State{
		"name":  "",
		"email": nil,
		"positions": blueprint.NewTrackedArray(
			blueprint.State{"value": "first"},
		),
	},
		blueprint.WithName("demo"),
		blueprint.WithLogger(logger),
		blueprint.WithPersistence(driver, "cli"),
		blueprint.WithRules(map[string]blueprint.FieldRules{
			"/name": {Rules: []blueprint.Rule{rules.Required("name is required")}},
		}),
		blueprint.WithFieldGetter("name", func(v any, _ blueprint.State) any {
			s, _ := v.(string)
			if strings.TrimSpace(s) == "" {
				return blueprint.Omit
			}
			return strings.TrimSpace(s)
		}),
	)

	fmt.Printf("initial payload: %v\n", form.BuildPayload())

	_ = form.Set("/name", "Alice")
	fmt.Printf("dirty(name)=%v touched(name)=%v errors=%v\n",
		form.IsDirty("/name"), form.IsTouched("/name"), form.Errors("/name"))
	fmt.Printf("payload after edit: %v\n", form.BuildPayload())

	if !form.Validate(true) {
		logger.Warn("validation failed")
		os.Exit(1)
	}
	logger.Info("form valid", "payload", fmt.Sprint(form.BuildPayload()))
}
