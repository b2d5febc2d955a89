package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/internal/jsonfile"
	userCmd "github.com/Alturino/storefront/user/cmd"
)

func newHashPasswordCommand() *cobra.Command {
	var cost int
	command := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash to use as ADMIN_PASS_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := userCmd.HashPassword(cmd.Context(), args[0], cost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	command.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return command
}

func newValidateCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-catalog <file>",
		Short: "Check a catalog file the same way PUT /api/catalog does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := jsonfile.ReadRaw(args[0])
			if err != nil {
				return err
			}
			if err := model.Validate(data); err != nil {
				return fmt.Errorf("failed validating catalog=%s with error=%w", args[0], err)
			}
			catalog, err := model.Parse(data)
			if err != nil {
				return err
			}
			for _, warning := range catalog.Warnings {
				if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], warning); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return err
		},
	}
}
