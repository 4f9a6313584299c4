package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Synthesis SynthesisConfig `mapstructure:"synthesis"`
	Mask      MaskConfig      `mapstructure:"mask"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize          int64    `mapstructure:"max_size"`
	UploadDir        string   `mapstructure:"upload_dir"`
	AllowedTypes     []string `mapstructure:"allowed_types"`
	CleanupTempFiles bool     `mapstructure:"cleanup_temp_files"`
}

// BackendConfig 计算后端与并发控制
type BackendConfig struct {
	Kind          string `mapstructure:"kind"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
	QueueTimeout  int    `mapstructure:"queue_timeout"`
}

// SynthesisConfig 合成参数默认值
type SynthesisConfig struct {
	Weight          float32 `mapstructure:"weight"`
	Uniformity      float32 `mapstructure:"uniformity"`
	PatchSize       int     `mapstructure:"patch_size"`
	PyramidLevels   int     `mapstructure:"pyramid_levels"`
	SearchVoteIters int     `mapstructure:"search_vote_iters"`
	PatchMatchIters int     `mapstructure:"patch_match_iters"`
	StopThreshold   int     `mapstructure:"stop_threshold"`
	ExtraPass3x3    bool    `mapstructure:"extra_pass_3x3"`
	VoteMode        string  `mapstructure:"vote_mode"`
}

// MaskConfig 掩码预处理，大于 Threshold 的像素视为空洞
type MaskConfig struct {
	Threshold int `mapstructure:"threshold"`
	Dilate    int `mapstructure:"dilate"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("inpaintkit")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New 使用默认配置路径加载配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，返回默认配置
		return getDefaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	def := getDefaultConfig()

	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.mode", def.Server.Mode)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)

	v.SetDefault("redis.addr", def.Redis.Addr)
	v.SetDefault("redis.password", def.Redis.Password)
	v.SetDefault("redis.db", def.Redis.DB)
	v.SetDefault("redis.ttl", def.Redis.TTL)

	v.SetDefault("upload.max_size", def.Upload.MaxSize)
	v.SetDefault("upload.upload_dir", def.Upload.UploadDir)
	v.SetDefault("upload.allowed_types", def.Upload.AllowedTypes)
	v.SetDefault("upload.cleanup_temp_files", def.Upload.CleanupTempFiles)

	v.SetDefault("backend.kind", def.Backend.Kind)
	v.SetDefault("backend.max_concurrent", def.Backend.MaxConcurrent)
	v.SetDefault("backend.queue_timeout", def.Backend.QueueTimeout)

	v.SetDefault("synthesis.weight", def.Synthesis.Weight)
	v.SetDefault("synthesis.uniformity", def.Synthesis.Uniformity)
	v.SetDefault("synthesis.patch_size", def.Synthesis.PatchSize)
	v.SetDefault("synthesis.pyramid_levels", def.Synthesis.PyramidLevels)
	v.SetDefault("synthesis.search_vote_iters", def.Synthesis.SearchVoteIters)
	v.SetDefault("synthesis.patch_match_iters", def.Synthesis.PatchMatchIters)
	v.SetDefault("synthesis.stop_threshold", def.Synthesis.StopThreshold)
	v.SetDefault("synthesis.extra_pass_3x3", def.Synthesis.ExtraPass3x3)
	v.SetDefault("synthesis.vote_mode", def.Synthesis.VoteMode)

	v.SetDefault("mask.threshold", def.Mask.Threshold)
	v.SetDefault("mask.dilate", def.Mask.Dilate)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      24 * time.Hour,
		},
		Upload: UploadConfig{
			MaxSize:          32 * 1024 * 1024,
			UploadDir:        "./uploads",
			AllowedTypes:     []string{"image/jpeg", "image/png", "image/jpg", "image/bmp", "image/tiff", "image/webp"},
			CleanupTempFiles: true,
		},
		Backend: BackendConfig{
			Kind:          "cuda",
			MaxConcurrent: 1,
			QueueTimeout:  60,
		},
		Synthesis: SynthesisConfig{
			Weight:          1,
			Uniformity:      3500,
			PatchSize:       5,
			PyramidLevels:   -1,
			SearchVoteIters: 6,
			PatchMatchIters: 4,
			StopThreshold:   1,
			ExtraPass3x3:    false,
			VoteMode:        "weighted",
		},
		Mask: MaskConfig{
			Threshold: 0,
			Dilate:    0,
		},
	}
}
