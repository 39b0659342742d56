package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/nerdneilsfield/go-docprep/internal/template"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"github.com/spf13/viper"
)

// TemplateConfig 文章模板配置
type TemplateConfig struct {
	TableOfContents  bool   `mapstructure:"table_of_contents"` // 是否生成目录
	TOCDepth         int    `mapstructure:"toc_depth"`         // 目录层级
	AbstractLocation string `mapstructure:"abstract_location"` // 摘要位置: title 或 front_matter
	Index            bool   `mapstructure:"index"`             // 是否生成索引
	ContentsTitle    string `mapstructure:"contents_title"`    // 目录标题
	IndexTitle       string `mapstructure:"index_title"`       // 索引标题
}

// Config 保存构建的所有配置
type Config struct {
	PageWidth    int                       `mapstructure:"page_width"`    // 每行列数
	PageHeight   int                       `mapstructure:"page_height"`   // 每页行数
	MaxPasses    int                       `mapstructure:"max_passes"`    // 最多渲染轮数
	OutputFormat string                    `mapstructure:"output_format"` // 输出格式: text, html, markdown（为空时按扩展名）
	GlossaryPath string                    `mapstructure:"glossary_path"` // 索引词表文件路径
	Styles       map[string]document.Style `mapstructure:"styles"`        // 覆盖默认样式
	Template     TemplateConfig            `mapstructure:"template"`
	RecordStats  bool                      `mapstructure:"record_stats"` // 是否记录构建统计
	StatsFile    string                    `mapstructure:"stats_file"`   // 统计文件路径，为空时使用 ~/.docprep/stats.json

	Debug    bool   `mapstructure:"debug"`
	Verbose  bool   `mapstructure:"verbose"`
	LogLevel string `mapstructure:"log_level"` // 基础日志级别
	LogFile  string `mapstructure:"log_file"`  // 日志文件路径，为空时只输出到控制台
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// .env 中的变量可以覆盖配置文件
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果配置路径已指定，则直接使用
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 查找家目录中的配置文件
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		// 添加可能的配置文件路径
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".docprep")
		v.SetConfigType("yaml")
	}

	// 读取环境变量
	v.SetEnvPrefix("DOCPREP")
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果找不到配置文件，则使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig 将配置保存到文件
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configPath = filepath.Join(home, ".docprep.yaml")
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.MergeConfigMap(structToMap(config)); err != nil {
		return err
	}

	// 创建父目录（如果不存在）
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return v.WriteConfig()
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		PageWidth:    layout.DefaultPageWidth,
		PageHeight:   layout.DefaultPageHeight,
		MaxPasses:    layout.DefaultMaxPasses,
		OutputFormat: "",
		Styles:       map[string]document.Style{},
		RecordStats:  true,
		Template: TemplateConfig{
			TableOfContents:  true,
			TOCDepth:         2,
			AbstractLocation: string(template.AbstractFrontMatter),
			Index:            true,
			ContentsTitle:    "Contents",
			IndexTitle:       "Index",
		},
		LogLevel: "info",
	}
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if c.PageWidth < 10 {
		return fmt.Errorf("page_width must be at least 10, got %d", c.PageWidth)
	}
	if c.PageHeight < 5 {
		return fmt.Errorf("page_height must be at least 5, got %d", c.PageHeight)
	}
	if c.MaxPasses < 1 {
		return fmt.Errorf("max_passes must be positive, got %d", c.MaxPasses)
	}
	if _, err := template.ParseAbstractLocation(c.Template.AbstractLocation); err != nil {
		return err
	}
	return nil
}

// LayoutOptions 转换为排版选项
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		PageWidth:  c.PageWidth,
		PageHeight: c.PageHeight,
		MaxPasses:  c.MaxPasses,
		Stylesheet: layout.DefaultStylesheet().Merge(c.Styles),
	}
}

// ArticleOptions 转换为模板选项
func (c *Config) ArticleOptions() template.ArticleOptions {
	loc, err := template.ParseAbstractLocation(c.Template.AbstractLocation)
	if err != nil {
		loc = template.AbstractFrontMatter
	}
	return template.ArticleOptions{
		TableOfContents:  c.Template.TableOfContents,
		TOCDepth:         c.Template.TOCDepth,
		AbstractLocation: loc,
		Index:            c.Template.Index,
		ContentsTitle:    c.Template.ContentsTitle,
		IndexTitle:       c.Template.IndexTitle,
	}
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	defaults := NewDefaultConfig()
	v.SetDefault("page_width", defaults.PageWidth)
	v.SetDefault("page_height", defaults.PageHeight)
	v.SetDefault("max_passes", defaults.MaxPasses)
	v.SetDefault("output_format", defaults.OutputFormat)
	v.SetDefault("glossary_path", "")
	v.SetDefault("record_stats", defaults.RecordStats)
	v.SetDefault("stats_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", "")

	// 模板默认配置
	v.SetDefault("template.table_of_contents", defaults.Template.TableOfContents)
	v.SetDefault("template.toc_depth", defaults.Template.TOCDepth)
	v.SetDefault("template.abstract_location", defaults.Template.AbstractLocation)
	v.SetDefault("template.index", defaults.Template.Index)
	v.SetDefault("template.contents_title", defaults.Template.ContentsTitle)
	v.SetDefault("template.index_title", defaults.Template.IndexTitle)
}

// structToMap 将结构体转换为map
func structToMap(config *Config) map[string]interface{} {
	styles := make(map[string]interface{}, len(config.Styles))
	for name, style := range config.Styles {
		styles[name] = map[string]interface{}{
			"indent":      style.Indent,
			"space_after": style.SpaceAfter,
			"prefix":      style.Prefix,
		}
	}
	return map[string]interface{}{
		"page_width":    config.PageWidth,
		"page_height":   config.PageHeight,
		"max_passes":    config.MaxPasses,
		"output_format": config.OutputFormat,
		"glossary_path": config.GlossaryPath,
		"styles":        styles,
		"record_stats":  config.RecordStats,
		"stats_file":    config.StatsFile,
		"template": map[string]interface{}{
			"table_of_contents": config.Template.TableOfContents,
			"toc_depth":         config.Template.TOCDepth,
			"abstract_location": config.Template.AbstractLocation,
			"index":             config.Template.Index,
			"contents_title":    config.Template.ContentsTitle,
			"index_title":       config.Template.IndexTitle,
		},
		"debug":     config.Debug,
		"verbose":   config.Verbose,
		"log_level": config.LogLevel,
		"log_file":  config.LogFile,
	}
}
