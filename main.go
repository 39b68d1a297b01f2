package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(ctx)
	if err := cmd.Execute(); err != nil {
		os.Exit(die(err))
	}
	if ctx.Err() != nil {
		fmt.Fprintln(os.Stdout, "Exiting...")
	}
	os.Exit(exOK)
}

func newRootCommand(ctx context.Context) *cobra.Command {
	var overrides cliOverrides
	var (
		all      bool
		quiet    bool
		schedule string
	)

	cmd := &cobra.Command{
		Use:           "sitesync [environment...]",
		Short:         "Sync a local directory to an object storage bucket",
		Long:          "sitesync mirrors a local directory tree onto an object storage bucket,\nskipping files whose stored fingerprint is unchanged, optionally removing\norphaned remote objects and invalidating CloudFront afterward.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(quiet)

			overrides.ForceSet = cmd.Flags().Changed("force")
			overrides.GitignoreSet = cmd.Flags().Changed("gitignore")
			overrides.DeleteSet = cmd.Flags().Changed("delete")

			if _, err := processesInt(overrides.Processes); err != nil {
				return err
			}

			conf, err := loadConfig(overrides.ConfigFile)
			if err != nil {
				return err
			}

			environments := args
			if all {
				environments = conf.EnvironmentNames()
			} else if len(environments) == 0 {
				environments = []string{"default"}
			}

			// Resolve every environment up front so a typo in the second
			// name fails before the first one starts uploading.
			jobs := make([]SyncJob, 0, len(environments))
			for _, env := range environments {
				job, err := resolveJob(env, conf, overrides)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
			}

			runAll := func() error {
				for i, job := range jobs {
					if ctx.Err() != nil {
						return nil
					}
					log.Infof("Uploading environment %d of %d", i+1, len(jobs))
					if err := runEnvironment(ctx, conf, job, quiet); err != nil {
						return err
					}
				}
				return nil
			}

			if schedule == "" {
				return runAll()
			}
			return runScheduled(ctx, schedule, runAll)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&overrides.BucketName, "bucket-name", "", "The bucket to upload files to")
	flags.StringVar(&overrides.LocalPath, "local-path", "", "The local folder to upload files from")
	flags.StringVar(&overrides.BucketPath, "bucket-path", "", "The remote folder to upload files to")
	flags.StringArrayVar(&overrides.Excludes, "exclude", nil, "A filename or pattern to ignore, may be repeated")
	flags.StringVar(&overrides.ACL, "acl", "", "The canned ACL to apply to uploaded files")
	flags.BoolVarP(&overrides.Force, "force", "f", false, "Upload all files whether they are up to date or not")
	flags.BoolVarP(&overrides.DryRun, "dry-run", "n", false, "Show which files would be updated without uploading")
	flags.StringVar(&overrides.Charset, "charset", "", "The charset header to add to text files")
	flags.BoolVar(&overrides.Gitignore, "gitignore", false, "Add .gitignore rules to the exclude list")
	flags.IntVarP(&overrides.Processes, "processes", "p", 10, "The number of concurrent uploads/deletes")
	flags.BoolVar(&overrides.Delete, "delete", false, "Remove orphaned files from the bucket")
	flags.BoolVar(&overrides.Confirm, "confirm", false, "Confirm each file before deleting, requires --delete")
	flags.StringArrayVar(&overrides.CloudFrontIDs, "cloudfront-id", nil, "CloudFront distribution to invalidate after updating, may be repeated")
	flags.BoolVar(&all, "all", false, "Deploy every environment in the config file")
	flags.StringVarP(&overrides.ConfigFile, "config", "c", defaultConfigFile, "Path to the config file")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress all non-fatal output")
	flags.StringVar(&schedule, "schedule", "", "Cron expression to run the deploy repeatedly until interrupted")

	return cmd
}

// runEnvironment wires the provider clients for one resolved job and runs
// the sync engine.
func runEnvironment(ctx context.Context, conf AppConfig, job SyncJob, quiet bool) error {
	client, err := newBucketClient(ctx, job.Provider)
	if err != nil {
		return err
	}

	var invalidator InvalidationClient
	if len(job.CloudFrontIDs) > 0 && !job.DryRun {
		invalidator, err = NewCloudFrontClient(ctx)
		if err != nil {
			return err
		}
	}

	notifier, err := newNotifier(ctx, conf, quiet)
	if err != nil {
		return err
	}

	_, err = syncFiles(ctx, job, client, invalidator, newTerminalConfirmer(), notifier)
	return err
}

func newBucketClient(ctx context.Context, provider string) (BucketClient, error) {
	switch provider {
	case "aws":
		return NewS3Client(ctx)
	case "gcs":
		return NewGCSClient(ctx)
	default:
		return nil, configErrorf("unknown storage provider: %s", provider)
	}
}

func newNotifier(ctx context.Context, conf AppConfig, quiet bool) (Notifier, error) {
	if quiet {
		return nil, nil
	}
	if conf.SNSTopic != "" {
		return NewSNSNotifier(ctx, conf.SNSTopic)
	}
	if conf.Notify {
		return &DesktopNotifier{AppName: "sitesync"}, nil
	}
	return nil, nil
}

// runScheduled re-runs the deploy on a cron schedule until the context is
// cancelled. Errors from a scheduled run are logged rather than fatal so a
// transient failure does not stop future runs.
func runScheduled(ctx context.Context, schedule string, run func() error) error {
	scheduler := gocron.NewScheduler(time.Local)
	if _, err := scheduler.Cron(schedule).Do(func() {
		if err := run(); err != nil {
			log.Errorf("Scheduled deploy failed: %s", err)
		}
	}); err != nil {
		return configErrorf("invalid --schedule expression %q: %v", schedule, err)
	}

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()
	return nil
}
