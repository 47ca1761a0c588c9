package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evalgo.org/tessella/internal/jsonld"
	"evalgo.org/tessella/models"
	"evalgo.org/tessella/vault"
)

var inspectValidate bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Normalize an IIIF document and print statistics",
	Long: `Normalize a nested IIIF Presentation document and report entity
counts per type, the root id, and any index inconsistencies. With
--validate the document is first run through JSON-LD expansion.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectValidate, "validate", false, "validate JSON-LD before normalizing")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	if inspectValidate {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := jsonld.New().Validate(raw); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Println("JSON-LD: valid")
	}

	tree, err := readDocument(path)
	if err != nil {
		return err
	}

	st, err := vault.Normalize(tree)
	if err != nil {
		return fmt.Errorf("failed to normalize %s: %w", path, err)
	}

	fmt.Printf("Root:     %s (%s)\n", st.RootID, tree.Type)
	fmt.Printf("Entities: %d\n", vault.GetTotalEntityCount(st))
	for _, t := range models.EntityTypes {
		if n := vault.GetEntityCount(st, t); n > 0 {
			fmt.Printf("  %-15s %d\n", t, n)
		}
	}

	violations := vault.CheckConsistency(st)
	if len(violations) == 0 {
		fmt.Println("Indexes:  consistent")
		return nil
	}
	fmt.Printf("Indexes:  %d violation(s)\n", len(violations))
	for _, v := range violations {
		fmt.Printf("  %s\n", v)
	}
	return fmt.Errorf("%s: inconsistent indexes", path)
}
