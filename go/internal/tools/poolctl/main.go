// Command poolctl is the operator CLI for the playoff pool API.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcdev12/playoffpool/go/sdk"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app carries what every command needs. Commands read it after flags are
// parsed.
type app struct {
	v   *viper.Viper
	out io.Writer
}

func (a *app) client() *sdk.Client {
	return sdk.New(a.v.GetString("server"), sdk.WithToken(a.v.GetString("token")))
}

func (a *app) json() bool {
	return a.v.GetBool("json")
}

func newRootCmd(out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("POOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	a := &app{v: v, out: out}

	root := &cobra.Command{
		Use:           "poolctl",
		Short:         "Operate the playoff pool: drafts, players and scores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.PersistentFlags().String("server", "http://localhost:8080", "API base URL")
	root.PersistentFlags().String("token", "", "bearer token (admin commands need the fpf_admin role)")
	root.PersistentFlags().Bool("json", false, "output JSON")
	_ = v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag("token", root.PersistentFlags().Lookup("token"))
	_ = v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	root.AddCommand(draftCmd(a))
	root.AddCommand(playersCmd(a))
	root.AddCommand(scoresCmd(a))
	root.AddCommand(standingsCmd(a))
	return root
}
