/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orien/lambdaroo/internal/aws"
	"github.com/orien/lambdaroo/internal/changeset"
	"github.com/orien/lambdaroo/internal/config"
	"github.com/orien/lambdaroo/internal/deploy"
	"github.com/orien/lambdaroo/internal/describe"
	"github.com/orien/lambdaroo/internal/events"
	"github.com/orien/lambdaroo/internal/logging"
	"github.com/orien/lambdaroo/internal/model"
	"github.com/orien/lambdaroo/internal/plan"
	"github.com/orien/lambdaroo/internal/version"

	"github.com/spf13/cobra"
)

// deployOptions holds the flags of the deploy command
type deployOptions struct {
	template            string
	bucket              string
	prefix              string
	pkg                 string
	parameters          string
	disableCapabilities string
	wait                bool
	timeout             time.Duration
	pollInterval        time.Duration
}

var deployOpts deployOptions

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy [stack-name]",
	Short: "Deploy a Lambda stack through a CloudFormation change set",
	Long: `Deploy a Lambda-based CloudFormation stack.

The code package and the template are uploaded to S3, function resources in
the template are pointed at the uploaded package, and a change set is created,
reviewed and executed. A stack left in ROLLBACK_COMPLETE by a failed create is
deleted and recreated. Stacks busy with another operation are waited on first.

Values not given on the command line are taken from the stack's section in the
defaults file. When the defaults file describes a single stack the stack name
may be omitted.

Examples:
  lambdaroo deploy orders --template template.yaml --s3-bucket artefacts --package build/orders.zip
  lambdaroo deploy orders --template-parameters 'Stage=prod;Memory=512'
  lambdaroo deploy orders --disable-capabilities CAPABILITY_NAMED_IAM --wait=false`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeploy(cmd, &globals, &deployOpts, args)
	},
}

func runDeploy(cmd *cobra.Command, global *globalOptions, opts *deployOptions, args []string) error {
	ctx := cmd.Context()
	provider := getConfigProvider(global.configFile)

	cfg, err := provider.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	stackName, err := resolveStackName(ctx, provider, args)
	if err != nil {
		return err
	}

	stackCfg, err := provider.GetStack(ctx, stackName)
	if err != nil {
		return fmt.Errorf("failed to get config for stack %s: %w", stackName, err)
	}

	req, interval, err := buildRequest(cmd, opts, stackName, stackCfg)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.LevelFor(global.verbose))
	if err != nil {
		return err
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	clientConfig := aws.Config{
		Region:  firstNonEmpty(global.region, cfg.Region),
		Profile: firstNonEmpty(global.profile, cfg.Profile),
		AppID:   version.AppID(),
	}

	d, err := getDeployer(ctx, clientConfig,
		deploy.WithLogger(log),
		deploy.WithPollInterval(interval),
		deploy.WithOutput(cmd.OutOrStdout()),
		deploy.WithStyles(events.NewStyles(useColour(global.noColour))),
	)
	if err != nil {
		return err
	}

	log.V(1).Info("deploying", "stack", req.StackName, "template", req.TemplatePath, "bucket", req.Bucket, "wait", req.Wait)

	result, err := d.Deploy(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("deployment of stack %s timed out after %s: %w", stackName, opts.timeout, err)
		}
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), describe.FormatResult(stackName, result))

	if !result.Succeeded {
		status := "unknown"
		if result.Stack != nil {
			status = result.Stack.DisplayStatus()
		}
		return fmt.Errorf("deployment of stack %s failed with status %s", stackName, status)
	}
	return nil
}

// resolveStackName takes the stack name from the arguments, or from the
// defaults file when it describes exactly one stack
func resolveStackName(ctx context.Context, provider config.ConfigProvider, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	names, err := provider.ListStacks(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list configured stacks: %w", err)
	}
	if len(names) != 1 {
		return "", model.Preconditionf("a stack name is required")
	}
	return names[0], nil
}

// buildRequest combines the stack's configured defaults with the command line flags
func buildRequest(cmd *cobra.Command, opts *deployOptions, stackName string, stackCfg *config.StackConfig) (deploy.Request, time.Duration, error) {
	if stackCfg == nil {
		stackCfg = &config.StackConfig{}
	}
	flags := cmd.Flags()

	req := deploy.Request{
		StackName:            stackName,
		TemplatePath:         stackCfg.Template,
		Bucket:               stackCfg.Bucket,
		Prefix:               stackCfg.Prefix,
		PackagePath:          stackCfg.Package,
		Parameters:           stackCfg.Parameters,
		DisabledCapabilities: stackCfg.DisabledCapabilities,
		Wait:                 true,
		TemplateVariables:    stackCfg.Variables,
	}
	if stackCfg.Wait != nil {
		req.Wait = *stackCfg.Wait
	}

	if flags.Changed("template") {
		req.TemplatePath = opts.template
	}
	if flags.Changed("s3-bucket") {
		req.Bucket = opts.bucket
	}
	if flags.Changed("s3-prefix") {
		req.Prefix = opts.prefix
	}
	if flags.Changed("package") {
		req.PackagePath = opts.pkg
	}
	if flags.Changed("template-parameters") {
		supplied, err := plan.ParseKeyValuePairs(opts.parameters)
		if err != nil {
			return deploy.Request{}, 0, model.Preconditionf("invalid --template-parameters: %v", err)
		}
		req.Parameters = config.MergeParameters(req.Parameters, supplied)
	}
	if flags.Changed("disable-capabilities") {
		req.DisabledCapabilities = plan.ParseList(opts.disableCapabilities)
	}
	if flags.Changed("wait") {
		req.Wait = opts.wait
	}

	interval := opts.pollInterval
	if !flags.Changed("poll-interval") && stackCfg.PollInterval > 0 {
		interval = stackCfg.PollInterval
	}
	if interval <= 0 {
		return deploy.Request{}, 0, model.Preconditionf("poll interval must be positive")
	}

	return req, interval, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func init() {
	flags := deployCmd.Flags()
	flags.StringVarP(&deployOpts.template, "template", "t", "", "path to the CloudFormation template")
	flags.StringVar(&deployOpts.bucket, "s3-bucket", "", "S3 bucket receiving the package and template")
	flags.StringVar(&deployOpts.prefix, "s3-prefix", "", "prefix prepended to uploaded object keys")
	flags.StringVar(&deployOpts.pkg, "package", "", "path to the zipped function code")
	flags.StringVar(&deployOpts.parameters, "template-parameters", "", "template parameters as 'Key=Value;Key2=Value2'")
	flags.StringVar(&deployOpts.disableCapabilities, "disable-capabilities", "", "comma separated capabilities to withhold")
	flags.BoolVar(&deployOpts.wait, "wait", true, "follow stack events until the deployment finishes")
	flags.DurationVar(&deployOpts.timeout, "timeout", 0, "abandon the deployment after this long (0 means no limit)")
	flags.DurationVar(&deployOpts.pollInterval, "poll-interval", changeset.DefaultPollInterval, "interval between status checks")

	rootCmd.AddCommand(deployCmd)
}
