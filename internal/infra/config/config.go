package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Crawl      CrawlConfig      `mapstructure:"crawl" yaml:"crawl"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch" yaml:"opensearch"`
	Lucene     LuceneConfig     `mapstructure:"lucene" yaml:"lucene"`
	Bench      BenchConfig      `mapstructure:"bench" yaml:"bench"`
	Results    ResultsConfig    `mapstructure:"results" yaml:"results"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`

	Port string `mapstructure:"port" yaml:"port"`
}

// CrawlConfig drives the Common Crawl segment fetcher. URLTemplate must
// contain the {idx} placeholder; [StartIndex, EndIndex) is half-open.
type CrawlConfig struct {
	URLTemplate        string `mapstructure:"url_template" yaml:"url_template"`
	StartIndex         int    `mapstructure:"start_index" yaml:"start_index"`
	EndIndex           int    `mapstructure:"end_index" yaml:"end_index"`
	DestinationDir     string `mapstructure:"destination_dir" yaml:"destination_dir"`
	MaxRetries         int    `mapstructure:"max_retries" yaml:"max_retries"`
	BackoffBaseSeconds int    `mapstructure:"backoff_base_seconds" yaml:"backoff_base_seconds"`
}

type OpenSearchConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

type LuceneConfig struct {
	GradlewPath string `mapstructure:"gradlew_path" yaml:"gradlew_path"`
	JarPath     string `mapstructure:"jar_path" yaml:"jar_path"`
	DataDir     string `mapstructure:"data_dir" yaml:"data_dir"`
}

type BenchConfig struct {
	Types    []string `mapstructure:"types" yaml:"types"`
	Codecs   []string `mapstructure:"codecs" yaml:"codecs"`
	Datasets []string `mapstructure:"datasets" yaml:"datasets"`
	Queries  []string `mapstructure:"queries" yaml:"queries"`
	OutDir   string   `mapstructure:"out_dir" yaml:"out_dir"`
}

type ResultsConfig struct {
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

func Load(path string) (*Config, error) {

	if path == "" {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, errEx := os.Stat("config.yaml.example"); path == "config.yaml" && errEx == nil {
			return nil, fmt.Errorf("configuration file 'config.yaml' not found\n\n" +
				"To fix this, run:\n" +
				"  cp config.yaml.example config.yaml\n" +
				"Then edit it for your cluster and datasets.")
		}
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	v := viper.New()

	// Set Defaults
	v.SetDefault("port", "8080")
	v.SetDefault("crawl.max_retries", 3)
	v.SetDefault("crawl.backoff_base_seconds", 5)
	v.SetDefault("crawl.destination_dir", "./Datasets/CommonCrawl")
	v.SetDefault("opensearch.host", "localhost")
	v.SetDefault("opensearch.port", 9200)
	v.SetDefault("lucene.gradlew_path", "./gradlew")
	v.SetDefault("bench.types", []string{"INDEXING", "SEARCH"})
	v.SetDefault("bench.codecs", []string{"PFOR", "NEWPFOR", "DELTA", "DEFAULT"})
	v.SetDefault("bench.datasets", []string{"COMMONCRAWL"})
	v.SetDefault("bench.queries", []string{"hello world", "climate change", "open source software"})
	v.SetDefault("bench.out_dir", "./BenchmarkData")
	v.SetDefault("results.sqlite_path", "./BenchmarkData/results.db")
	v.SetDefault("log.path", "indexbench.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)

	// Read config file
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	// Support Environment Variables
	v.SetEnvPrefix("INDEXBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Crawl.URLTemplate != "" && !strings.Contains(c.Crawl.URLTemplate, "{idx}") {
		return fmt.Errorf("crawl.url_template must contain the {idx} placeholder")
	}

	if c.Crawl.MaxRetries < 0 {
		return fmt.Errorf("crawl.max_retries must be >= 0")
	}

	if c.Crawl.BackoffBaseSeconds <= 0 {
		return fmt.Errorf("crawl.backoff_base_seconds must be > 0")
	}

	if c.OpenSearch.Port == 0 {
		c.OpenSearch.Port = 9200
	}

	if len(c.Bench.Codecs) == 0 {
		return fmt.Errorf("bench.codecs must list at least one codec")
	}

	return nil
}
