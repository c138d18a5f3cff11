package codemend_test

import (
	"context"
	"fmt"
	"log"

	"github.com/lmeira/codemend"
	"github.com/lmeira/codemend/pkg/ports"
)

// ExampleNew demonstrates driving the pipeline with a custom model client.
// Any function matching ports.ModelFunc works, which makes it easy to plug
// in a provider SDK or a canned client for tests.
func ExampleNew() {
	model := ports.ModelFunc(func(ctx context.Context, prompt string) (string, error) {
		return "def greet():\n    \"\"\"Print a greeting.\"\"\"\n    print(\"hello\")\n\ngreet()\n", nil
	})

	engine, err := codemend.New(model)
	if err != nil {
		log.Fatal(err)
	}

	rep, _ := engine.Run(context.Background(), "write a greeting function", "")

	fmt.Println(rep.Status)
}
