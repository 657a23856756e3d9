package render

import (
	"fmt"
	"io"

	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/fatih/color"
)

// InitRenderer renders init command results
type InitRenderer struct {
	out io.Writer
}

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

// Render renders the init project result
func (r *InitRenderer) Render(result *usecase.InitProjectResult) error {
	for _, step := range result.Steps {
		if step.Success {
			msg := step.Message
			if msg == "" {
				msg = step.Name
			}
			color.New(color.FgGreen).Fprintf(r.out, "✅ %s\n", msg)
			continue
		}
		color.New(color.FgRed).Fprintf(r.out, "❌ %s\n", step.Name)
		if step.Error != nil {
			fmt.Fprintf(r.out, "   %s\n", step.Error.Error())
		}
	}

	fmt.Fprintln(r.out)
	if result.AlreadyInitialized {
		color.New(color.FgYellow).Fprintln(r.out, "⚠️  copro was already initialized in this project")
		return nil
	}
	color.New(color.FgGreen, color.Bold).Fprintln(r.out, "🎉 copro initialized successfully!")

	fmt.Fprintln(r.out)
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📋 Next steps:")
	fmt.Fprintln(r.out, "1. Copy .env.example to .env and set DEPLOYER_PRIVATE_KEY and your RPC URLs")
	fmt.Fprintln(r.out, "2. Compile your contracts so the Coprocessor artifact exists")
	fmt.Fprintln(r.out, "3. Deploy:        copro deploy --network <name>")
	fmt.Fprintln(r.out, "4. Submit a job:  copro job new")
	return nil
}
