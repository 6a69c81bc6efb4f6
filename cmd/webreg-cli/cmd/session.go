package cmd

import (
	"fmt"
	"webweg/cmd/webreg-cli/globals"
	"webweg/cmd/webreg-cli/utils"
	"webweg/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	termsCmd.Flags().BoolVar(&associateAll, "associate", false, "associate the session with every term")
	rootCmd.AddCommand(termsCmd)
	rootCmd.AddCommand(associateCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(emailCmd)
}

var associateAll bool

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Lists every term WebReg knows of.",
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client

		if associateAll {
			err := client.RegisterAllTerms(cmd.Context())
			if err != nil {
				serviceutil.Fatal("failed to associate terms", err)
			}
		}

		terms, err := client.GetAllTerms(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list terms", err)
		}
		t := utils.NewTable()
		t.AppendHeader(table.Row{"Code", "Description", "Seq. Id"})
		for _, term := range terms {
			t.AppendRow(table.Row{term.TermCode, term.Description, term.SeqId})
		}
		t.Render()
	},
}

var associateCmd = &cobra.Command{
	Use:   "associate",
	Short: "Associates the session with the configured term, needed once per term for fresh sessions.",
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		err := client.AssociateTerm(cmd.Context(), client.Term())
		if err != nil {
			serviceutil.Fatal("failed to associate term", err)
		}
		fmt.Printf("session associated with %s\n", client.Term())
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Checks whether the session is still valid.",
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		ok, err := client.PingServer(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to ping", err)
		}
		if !ok {
			fmt.Println("session expired, copy fresh cookies from the browser")
			return
		}
		fmt.Println("session is valid")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Prints the name of the account the session belongs to.",
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		name, err := client.GetAccountName(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to get account name", err)
		}
		fmt.Println(name)
	},
}

var emailCmd = &cobra.Command{
	Use:   "email <message>",
	Short: "Makes WebReg email the message to the account's own address.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := globals.Get(cmd.Context()).Client
		err := client.SendEmailToSelf(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to send email", err)
		}
	},
}
