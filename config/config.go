package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	ApiServer  ServerConfigs
	Auth       AuthConfigs
	Session    SessionConfigs
	Storage    S3Configs
	File       FileConfigs
	Redis      RedisConfigs
	Pinata     PinataConfigs
	Classifier ClassifierConfigs
	Geocoder   GeocoderConfigs
	Eth        EthConfigs
	Badge      BadgeConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host           string
	Port           string
	AllowedOrigins []string
	MaxLimit       int
	DefaultLimit   int
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret  string
	AccessToken  TokenConfigs
	RefreshToken TokenConfigs

	Google OAuth2Config
}

type OAuth2Config struct {
	Name     string
	Issuer   string
	ClientID string
	IDField  string
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	SSLDisabled    bool
}

type FileConfigs struct {
	MaxSize int64
}

type RedisConfigs struct {
	Addr string
}

type PinataConfigs struct {
	Token   string
	Gateway string
}

type ClassifierConfigs struct {
	URL   string
	Token string
	Model string
}

type GeocoderConfigs struct {
	URL string
}

// EthConfigs is usually loaded from a TOML file given by ETH_CONFIG_FILE. The
// private key never appears in that file, it is taken from the environment.
type EthConfigs struct {
	Chain           string   `toml:"chain"`
	ChainID         int64    `toml:"chain_id"`
	Rpcs            []string `toml:"rpcs"`
	UseEip1559      bool     `toml:"use_eip_1559"`
	ContractAddress string   `toml:"contract_address"`

	PrivateKey string `toml:"-"`
}

type BadgeConfigs struct {
	// MintTimeout bounds waiting for a mint transaction receipt.
	MintTimeout time.Duration
}
