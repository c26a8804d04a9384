package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	subgroups "github.com/antoniolopezmc/subgroups-sub001"
	"github.com/antoniolopezmc/subgroups-sub001/dataset"
	"github.com/antoniolopezmc/subgroups-sub001/dataset/csv"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/antoniolopezmc/subgroups-sub001/feature/yaml"
	"github.com/antoniolopezmc/subgroups-sub001/reporter"
	"github.com/antoniolopezmc/subgroups-sub001/reporter/redisreporter"
	"github.com/antoniolopezmc/subgroups-sub001/tree"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	redis "gopkg.in/redis.v5"
)

const (
	configKey          = "config"
	inputKey           = "input"
	metadataKey        = "metadata"
	targetKey          = "target"
	minimumTPKey       = "minimum-tp"
	minimumFPKey       = "minimum-fp"
	minimumNKey        = "minimum-n"
	qualityMeasureKey  = "quality-measure"
	minimumQualityKey  = "minimum-quality"
	outputKey          = "output"
	formatKey          = "format"
	topKey             = "top"
	redisAddrKey       = "redis-addr"
	redisKeyKey        = "redis-key"
	memoryIntensiveKey = "memory-intensive"
	cpuIntensiveKey    = "cpu-intensive"
)

const (
	textFormat  = "text"
	jsonFormat  = "json"
	tableFormat = "table"
)

type mineCmdConfig struct {
	*rootCmdConfig
	v *viper.Viper
}

func mineCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &mineCmdConfig{rootCmdConfig: rootConfig, v: viper.New()}
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Discover subgroups in a dataset",
		Long:  `Discover the subgroups of a dataset for a target using the SDMap algorithm`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Load(cmd)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			err = config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := context.Background()
			target, err := feature.ParseTarget(config.v.GetString(targetKey))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			th, err := config.Threshold()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			qm, err := subgroups.QualityMeasureByName(config.v.GetString(qualityMeasureKey))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Reading features from metadata at %s...", config.v.GetString(metadataKey))
			features, err := yaml.ReadFeaturesFromFile(config.v.GetString(metadataKey))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Features from metadata read")

			ds, closeDataset, err := openDataset(ctx, config.Logf, config.v.GetString(inputKey), features, config.DatasetGenerator())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			defer closeDataset()

			r, err := config.Reporter()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}

			config.Logf("Mining subgroups for %v with threshold %+v and quality measure %s >= %v...", target, th, qm.Name(), config.v.GetFloat64(minimumQualityKey))
			sdmap := subgroups.NewSDMap(qm, config.v.GetFloat64(minimumQualityKey), th, r, subgroups.WithLogger(config.Logger().Logger))
			stats, err := sdmap.Run(ctx, ds, features, target)
			if err != nil {
				r.Close()
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			config.Logf("Subgroups mined: %d selected and %d unselected out of %d visited nodes", stats.SelectedSubgroups, stats.UnselectedSubgroups, stats.VisitedNodes)
			err = r.Close()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(7)
			}
			config.Logf("Done")
		},
	}
	flags := cmd.Flags()
	flags.StringP(configKey, "c", "", "path to a YML file with values for any of these flags, using the flag names as keys (SUBGROUPS_* environment variables are also read, e.g. SUBGROUPS_MINIMUM_N)")
	flags.StringP(inputKey, "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the dataset to mine (defaults to STDIN, interpreted as CSV)")
	flags.StringP(metadataKey, "m", "", "path to a YML file with metadata describing the different features available on the input file (required)")
	flags.StringP(targetKey, "t", "", "target of the subgroups, in the form attribute=value (required)")
	flags.Int(minimumTPKey, 0, "minimum true positives of a frequent pattern (requires --minimum-fp)")
	flags.Int(minimumFPKey, 0, "minimum false positives of a frequent pattern (requires --minimum-tp)")
	flags.Int(minimumNKey, 0, "minimum number of samples covered by a frequent pattern (incompatible with --minimum-tp and --minimum-fp)")
	flags.StringP(qualityMeasureKey, "q", "WRAcc", fmt.Sprintf("quality measure used to select subgroups, one of %s", strings.Join(subgroups.QualityMeasureNames(), ", ")))
	flags.Float64(minimumQualityKey, 0, "minimum quality of a selected subgroup")
	flags.StringP(outputKey, "o", "", "path to a file to write the selected subgroups to (defaults to STDOUT)")
	flags.String(formatKey, textFormat, "format of the output, one of text, json or table")
	flags.Int(topKey, 0, "only output the given number of subgroups with the best quality (0 means all of them)")
	flags.String(redisAddrKey, "", "address of a Redis server to also store the selected subgroups in (requires --redis-key)")
	flags.String(redisKeyKey, "", "key of the Redis sorted set to store the selected subgroups in, replacing any previous content")
	flags.Bool(memoryIntensiveKey, false, "use memory intensive subsetting to speed up the run on CSV input")
	flags.Bool(cpuIntensiveKey, false, "use CPU intensive subsetting to reduce memory usage on CSV input")
	return cmd
}

/*
Load binds the command flags to the configuration and reads the config
file and the SUBGROUPS_* environment variables. Flags set on the command
line take precedence over environment variables, which take precedence
over the config file.
*/
func (mcc *mineCmdConfig) Load(cmd *cobra.Command) error {
	mcc.v.SetEnvPrefix("SUBGROUPS")
	mcc.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	mcc.v.AutomaticEnv()
	err := mcc.v.BindPFlags(cmd.Flags())
	if err != nil {
		return err
	}
	if path := mcc.v.GetString(configKey); path != "" {
		mcc.v.SetConfigFile(path)
		mcc.v.SetConfigType("yml")
		err = mcc.v.ReadInConfig()
		if err != nil {
			return fmt.Errorf("reading config file %s: %v", path, err)
		}
	}
	return nil
}

func (mcc *mineCmdConfig) Validate() error {
	if mcc.v.GetString(metadataKey) == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if mcc.v.GetString(targetKey) == "" {
		return fmt.Errorf("required target flag was not set")
	}
	if mcc.v.GetBool(memoryIntensiveKey) && mcc.v.GetBool(cpuIntensiveKey) {
		return fmt.Errorf("memory-intensive and cpu-intensive flags are incompatible")
	}
	switch mcc.v.GetString(formatKey) {
	case textFormat, jsonFormat, tableFormat:
	default:
		return fmt.Errorf("unknown format %q", mcc.v.GetString(formatKey))
	}
	if mcc.v.GetInt(topKey) < 0 {
		return fmt.Errorf("top must not be negative")
	}
	if (mcc.v.GetString(redisAddrKey) == "") != (mcc.v.GetString(redisKeyKey) == "") {
		return fmt.Errorf("redis-addr and redis-key flags must be set together")
	}
	return nil
}

/*
Threshold returns the threshold described by the minimum tp, fp and n
values that were explicitly set.
*/
func (mcc *mineCmdConfig) Threshold() (tree.Threshold, error) {
	return tree.NewThreshold(mcc.intOption(minimumTPKey), mcc.intOption(minimumFPKey), mcc.intOption(minimumNKey))
}

func (mcc *mineCmdConfig) intOption(key string) *int {
	if !mcc.v.IsSet(key) {
		return nil
	}
	i := mcc.v.GetInt(key)
	return &i
}

func (mcc *mineCmdConfig) DatasetGenerator() csv.DatasetGenerator {
	if mcc.v.GetBool(memoryIntensiveKey) {
		return dataset.NewMemoryIntensive
	}
	if mcc.v.GetBool(cpuIntensiveKey) {
		return dataset.NewCPUIntensive
	}
	return dataset.New
}

/*
Reporter returns the reporter for the selected subgroups according to the
output, format, top and redis settings.
*/
func (mcc *mineCmdConfig) Reporter() (subgroups.Reporter, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if path := mcc.v.GetString(outputKey); path != "" {
		mcc.Logf("Creating %s to write subgroups...", path)
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		w, closer = f, f
	} else {
		mcc.Logf("Using STDOUT to write subgroups...")
	}
	var r subgroups.Reporter
	switch mcc.v.GetString(formatKey) {
	case jsonFormat:
		r = reporter.NewJSON(w)
	case tableFormat:
		r = reporter.NewTable(w)
	default:
		r = reporter.NewText(w)
	}
	if closer != nil {
		r = reporter.Chain(r, closingReporter{closer})
	}
	if addr := mcc.v.GetString(redisAddrKey); addr != "" {
		key := mcc.v.GetString(redisKeyKey)
		mcc.Logf("Storing subgroups on sorted set %s at Redis server %s...", key, addr)
		rc := redis.NewClient(&redis.Options{Addr: addr})
		err := redisreporter.Reset(rc, key)
		if err != nil {
			rc.Close()
			if closer != nil {
				closer.Close()
			}
			return nil, err
		}
		r = reporter.Chain(r, redisreporter.New(rc, key), closingReporter{rc})
	}
	if k := mcc.v.GetInt(topKey); k > 0 {
		r = reporter.Top(k, r)
	}
	return r, nil
}

// closingReporter closes a resource once reporting is done.
type closingReporter struct {
	io.Closer
}

func (closingReporter) Report(*subgroups.Subgroup) error {
	return nil
}
