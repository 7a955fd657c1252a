package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rishavanand/bazario/app/routes"
	"github.com/rishavanand/bazario/internal/server"
	"github.com/rishavanand/bazario/pkg/router"
	"github.com/rishavanand/bazario/pkg/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run()
	},
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "Print every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}

		r := router.New()
		hub := ws.NewHub()
		routes.RegisterAPI(r, hub)

		for _, route := range r.Routes() {
			fmt.Printf("  %-7s %-45s %s\n", route.Method, route.Path, route.Name)
		}
		return nil
	},
}
