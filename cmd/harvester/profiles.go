package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coolbeans/harvester/pkg/profile"
)

func profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List harvesting profiles",
		Long: `List the built-in profile and the profiles found in the profile directory.

With --watch the directory is watched and profile changes are reported
until interrupted.

Example:
  harvester profiles --profile-dir ./profiles
  harvester profiles --profile-dir ./profiles --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")

			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.logger.Sync()

			printProfiles(env.profiles.List(), env.cfg.Profile)
			if !watch {
				return nil
			}
			if env.cfg.ProfileDir == "" {
				return fmt.Errorf("--watch requires --profile-dir")
			}

			env.profiles.SetOnChange(func(event string, p *profile.Profile) {
				if p == nil {
					fmt.Printf("%s: profile file removed\n", event)
					return
				}
				fmt.Printf("%s: %s %s (%s)\n", event, p.Name, p.Version, p.Source())
			})
			if err := env.profiles.Watch(); err != nil {
				return err
			}
			defer env.profiles.StopWatch()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Printf("\nWatching %s for changes. Press Ctrl+C to exit.\n", env.cfg.ProfileDir)
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().Bool("watch", false, "Watch the profile directory for changes")

	return cmd
}

func printProfiles(profiles []*profile.Profile, active string) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tVERSION\tLEVELS\tSOURCE")
	for _, p := range profiles {
		marker := " "
		if p.Name == active {
			marker = "*"
		}
		var levels []string
		for _, spec := range p.Hierarchy().Specs() {
			levels = append(levels, spec.Level)
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", marker, p.Name, p.Version, strings.Join(levels, ","), p.Source())
	}
	tw.Flush()
}
