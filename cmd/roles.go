package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-matcher/internal/report"
	"github.com/spigell/resume-matcher/internal/utils"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the job roles and their required skills",
	Run: func(cmd *cobra.Command, _ []string) {
		roles, err := loadCatalog()
		if err != nil {
			log.Fatalf("loading role catalog: %s", err)
		}

		for _, role := range roles.Roles() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", report.RoleTitle(role.Name)+":", utils.JoinOr(role.Skills, "none"))
		}
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}
