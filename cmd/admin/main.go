// Command admin is the internal management tool: contact inbox, portfolio,
// services listing, user accounts and avatar maintenance.
package main

import (
	"fmt"
	"os"

	"folio/internal/bootstrap"
	"folio/internal/config"
	"folio/internal/featureflags"
	"folio/internal/mailer"
	"folio/internal/repository"
	"folio/internal/service"

	"github.com/spf13/cobra"
)

// app holds the services every subcommand works through. They are built in
// the root command's PersistentPreRunE so --help never touches the database.
type app struct {
	cfg *config.Config
	rt  *bootstrap.Runtime

	users     *service.UserService
	contacts  *service.ContactService
	portfolio *service.PortfolioService
	offerings *service.OfferingService
	profiles  *service.ProfileService
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rt, err := bootstrap.InitRuntime(cmd.Context(), cfg, bootstrap.Options{})
	if err != nil {
		return err
	}
	a.cfg, a.rt = cfg, rt

	images := service.NewImageService(rt.Media, cfg)
	a.users = service.NewUserService(repository.NewUserRepository(rt.DB), cfg.JWTSecret)
	a.contacts = service.NewContactService(repository.NewContactRepository(rt.DB), mailer.New(cfg), featureflags.NewManager(cfg.FeatureFlags), cfg)
	a.portfolio = service.NewPortfolioService(repository.NewPortfolioRepository(rt.DB))
	a.offerings = service.NewOfferingService(repository.NewOfferingRepository(rt.DB))
	a.profiles = service.NewProfileService(repository.NewProfileRepository(rt.DB), images)
	return nil
}

func (a *app) close(*cobra.Command, []string) {
	a.rt.Close()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "admin",
		Short:             "Folio administration tool",
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRun: a.close,
	}
	root.AddCommand(
		contactCmd(a),
		portfolioCmd(a),
		servicesCmd(a),
		usersCmd(a),
		normalizeAvatarsCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
