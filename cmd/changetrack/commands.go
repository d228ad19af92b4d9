package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/changetrack/internal/app"
	"github.com/yungbote/changetrack/internal/data/db"
	types "github.com/yungbote/changetrack/internal/domain/employee"
	"github.com/yungbote/changetrack/internal/platform/access"
	"github.com/yungbote/changetrack/internal/platform/apierr"
	"github.com/yungbote/changetrack/internal/services"
)

func newRootCmd() *cobra.Command {
	var timeout time.Duration
	root := &cobra.Command{
		Use:           "changetrack",
		Short:         "Employee aggregate store with change-log replay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall command timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the employee and address tables",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, timeout, func(ctx context.Context, a *app.App) error {
					if err := db.AutoMigrateAll(a.DB.WithContext(ctx)); err != nil {
						return err
					}
					a.Log.Info("migration complete", "driver", a.Cfg.DBDriver)
					return nil
				})
			},
		},
		newDemoCmd(&timeout),
	)
	return root
}

func newDemoCmd(timeout *time.Duration) *cobra.Command {
	var (
		name    string
		age     int
		country string
		street  string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Create an employee, edit it, and print each stored version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *timeout, func(ctx context.Context, a *app.App) error {
				ctx = access.WithUserID(ctx, a.Cfg.SystemUser)
				svc := a.Services.Employees
				out := cmd.OutOrStdout()

				created, err := svc.Create(ctx, services.CreateEmployeeInput{Name: name, Age: age})
				if err != nil {
					return describe(err)
				}
				printEmployee(out, "created", created)

				updated, err := svc.UpdateProfile(ctx, created.ID, types.ProfileInput{Name: created.Name, Age: created.Age + 1})
				if err != nil {
					return describe(err)
				}
				printEmployee(out, "profile updated", updated)

				withAddr, err := svc.AddAddress(ctx, created.ID, types.AddressInput{Country: country, Street: street})
				if err != nil {
					return describe(err)
				}
				printEmployee(out, "address added", withAddr)

				// The first version is stale by now.
				if err := svc.Delete(ctx, created.ID, created.Version); err != nil {
					fmt.Fprintf(out, "stale delete rejected: %v\n", describe(err))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "Yao", "employee name")
	cmd.Flags().IntVar(&age, "age", 18, "employee age")
	cmd.Flags().StringVar(&country, "country", "TW", "address country")
	cmd.Flags().StringVar(&street, "street", "Zhongshan Rd", "address street")
	return cmd
}

func withApp(cmd *cobra.Command, timeout time.Duration, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()
	return fn(ctx, a)
}

func describe(err error) error {
	apiErr := apierr.FromError(err)
	if apiErr == nil {
		return nil
	}
	if apiErr.Retryable {
		return fmt.Errorf("%s (status %d, retry with fresh data): %w", apiErr.Code, apiErr.Status, err)
	}
	return fmt.Errorf("%s (status %d): %w", apiErr.Code, apiErr.Status, err)
}

func printEmployee(w io.Writer, label string, e *types.Employee) {
	fmt.Fprintf(w, "%s: id=%s name=%s age=%d version=%d addresses=%d updated_by=%s\n",
		label, e.ID, e.Name, e.Age, e.Version, len(e.Addresses), e.UpdatedBy)
}
