package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lencelabs/lence/internal/service"
	"github.com/lencelabs/lence/internal/ui"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources [project]",
	Short: "List the project's data sources",
	Long: `List the project's data sources.

Registers every source from config/sources.yaml against the engine, so a
broken source definition (missing file, unsupported type) fails here rather
than at first query.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir := "."
		if len(args) > 0 {
			projectDir = args[0]
		}

		a, err := loadApp(projectDir, service.ModeServe)
		if err != nil {
			return err
		}
		defer a.Close()

		infos := a.catalog.List()
		if len(infos) == 0 {
			fmt.Println(ui.Styled(ui.Muted, "No sources configured. Add some to config/sources.yaml."))
			return nil
		}

		// Plain header cells: styled text carries ANSI codes that would
		// throw off the table's width accounting.
		table := ui.NewTable(3)
		table.AddRow("NAME", "TYPE", "DESCRIPTION")
		for _, info := range infos {
			table.AddRow(info.Name, info.Kind, info.Description)
		}
		fmt.Print(table.String())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
