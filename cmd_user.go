// Package main — "pano user" komutları.
//
// İlk kayıt olan kullanıcı otomatik ADMIN olur; bunun dışında admin atamak
// veya bir admin'i düşürmek için web arayüzü yetmez (admin'ler birbirini
// yönetemez). Bu komutlar doğrudan veritabanı üzerinde çalışır.
package main

import (
	"fmt"

	"github.com/akinalp/pano/config"
	"github.com/akinalp/pano/database"
	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/services"
	"github.com/spf13/cobra"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user roles from the command line",
	}

	cmd.AddCommand(setRoleCmd("promote", "Grant ADMIN to a user", models.RoleAdmin))
	cmd.AddCommand(setRoleCmd("demote", "Revoke ADMIN from a user", models.RoleUser))

	return cmd
}

func setRoleCmd(use, short string, role models.Role) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}

			db, err := database.New(cfg.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			repos := initRepositories(db.Conn)
			admin := services.NewAdminService(repos.User, repos.Session, repos.Stats)

			user, err := admin.SetRoleByUsername(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
			return nil
		},
	}
}
