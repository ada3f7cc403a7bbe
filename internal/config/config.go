package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-mem-market/pkg/mysql"
)

const (
	// DefaultPath 預設設定檔位置
	DefaultPath = "config/config.yaml"

	SinkFile  = "file"
	SinkMySQL = "mysql"

	// LedgerMutex 以 RWMutex 保護帳戶 Map
	LedgerMutex = "mutex"
	// LedgerLMAX 單一消費者迴圈處理所有帳本請求
	LedgerLMAX = "lmax"
)

// Config 應用程式設定
// 讀取順序: YAML 檔 -> .env / 環境變數 (MARKET_*) -> 預設值
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Export   ExportConfig   `yaml:"export"`
	Journal  JournalConfig  `yaml:"journal"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	MySQL    mysql.Config   `yaml:"mysql"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// LedgerConfig 帳本實作
type LedgerConfig struct {
	Type       string `yaml:"type"`        // mutex | lmax
	BufferSize int    `yaml:"buffer_size"` // lmax 輸送帶長度
}

// ExportConfig 交易紀錄匯出
type ExportConfig struct {
	Path     string `yaml:"path"`     // sink=file 時的輸出檔
	Sink     string `yaml:"sink"`     // file | mysql
	Schedule string `yaml:"schedule"` // cron 表示式，空字串代表不排程 (僅 server 模式)
}

// JournalConfig WAL 設定，Path 為空時不啟用
type JournalConfig struct {
	Path string `yaml:"path"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// RabbitMQConfig URL 為空時不發布購買事件
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
}

// Load 載入設定
//
// 參數:
//
//	path: YAML 設定檔，檔案不存在時只使用環境變數與預設值
//	envFiles: 額外的 .env 檔，不存在的會被略過
//
// 回傳值:
//
//	Config: 合併後的設定
//	error: 檔案格式錯誤或設定值不合法
func Load(path string, envFiles ...string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// 不覆蓋已存在的環境變數
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 檢查設定值
func (c *Config) Validate() error {
	switch c.Ledger.Type {
	case LedgerMutex, LedgerLMAX:
	default:
		return fmt.Errorf("unknown ledger type %q", c.Ledger.Type)
	}
	switch c.Export.Sink {
	case SinkFile:
		if c.Export.Path == "" {
			return errors.New("export.path is required for the file sink")
		}
	case SinkMySQL:
		if c.MySQL.Host == "" || c.MySQL.DBName == "" {
			return errors.New("mysql.host and mysql.db_name are required for the mysql sink")
		}
	default:
		return fmt.Errorf("unknown export sink %q", c.Export.Sink)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Ledger.Type == "" {
		c.Ledger.Type = LedgerMutex
	}
	if c.Ledger.BufferSize <= 0 {
		c.Ledger.BufferSize = 1000
	}
	if c.Export.Sink == "" {
		c.Export.Sink = SinkFile
	}
	if c.Export.Path == "" {
		c.Export.Path = "data.txt"
	}
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	c.MySQL.ApplyDefaults()
}

func (c *Config) applyEnv() error {
	setString(&c.Log.Level, "MARKET_LOG_LEVEL")
	setString(&c.Ledger.Type, "MARKET_LEDGER_TYPE")
	setString(&c.Export.Path, "MARKET_EXPORT_PATH")
	setString(&c.Export.Sink, "MARKET_EXPORT_SINK")
	setString(&c.Export.Schedule, "MARKET_EXPORT_SCHEDULE")
	setString(&c.Journal.Path, "MARKET_JOURNAL_PATH")
	setString(&c.GRPC.Addr, "MARKET_GRPC_ADDR")
	setString(&c.MySQL.Host, "MARKET_MYSQL_HOST")
	setString(&c.MySQL.User, "MARKET_MYSQL_USER")
	setString(&c.MySQL.Password, "MARKET_MYSQL_PASSWORD")
	setString(&c.MySQL.DBName, "MARKET_MYSQL_DB_NAME")
	setString(&c.RabbitMQ.URL, "MARKET_RABBITMQ_URL")
	setString(&c.RabbitMQ.Exchange, "MARKET_RABBITMQ_EXCHANGE")
	setString(&c.RabbitMQ.RoutingKey, "MARKET_RABBITMQ_ROUTING_KEY")

	if v, ok := os.LookupEnv("MARKET_MYSQL_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MARKET_MYSQL_PORT: %w", err)
		}
		c.MySQL.Port = port
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
