package main

import (
	"context" // Command context
	"fmt"     // CLI output
	"os"      // Exit codes

	"inventory_sales/internal/config"     // Custom import path (Config)
	"inventory_sales/internal/db"         // Custom import path (Database)
	"inventory_sales/internal/repository" // Persistence
	"inventory_sales/internal/service"    // Identity service

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"github.com/spf13/cobra"     // CLI framework
	"gorm.io/gorm"               // GORM ORM library
)

// Main entry point for migration
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// migrate
var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := bootDB()
		return err
	},
}

// Flags of createuser
var (
	username string
	password string
	isSeller bool
	isClient bool
)

// migrate createuser
var createUserCmd = &cobra.Command{
	Use:   "createuser",
	Short: "Create an identity, typically the first seller",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := bootDB()
		if err != nil {
			return err
		}
		users := service.NewUsers(repository.New(conn))
		in := service.UserInput{Username: username, Password: password, IsSeller: isSeller, IsClient: isClient}
		u, err := users.Register(context.Background(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (id %d)\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&username, "username", "", "username of the new identity")
	createUserCmd.Flags().StringVar(&password, "password", "", "password of the new identity")
	createUserCmd.Flags().BoolVar(&isSeller, "seller", false, "grant the seller capability")
	createUserCmd.Flags().BoolVar(&isClient, "client", false, "grant the client capability")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createUserCmd)
}

// bootDB loads config, connects and migrates the schema
func bootDB() (*gorm.DB, error) {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}
