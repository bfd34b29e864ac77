package config

import (
	"github.com/caarlos0/env/v11"
)

// envConfig carries every tunable with its default. The defaults reproduce
// the classic layout: videos/ and images/ under the working directory and an
// MSE threshold of 200, which is calibrated against a metric that divides by
// H*W only (not by channel count).
type envConfig struct {
	VideosFolder   string  `env:"SG_VIDEOS_FOLDER"   envDefault:"videos"`
	ImagesFolder   string  `env:"SG_IMAGES_FOLDER"   envDefault:"images"`
	MSEThreshold   float64 `env:"SG_MSE_THRESHOLD"   envDefault:"200"`
	LogLevel       string  `env:"SG_LOG_LEVEL"       envDefault:"info"`
	LogFile        string  `env:"SG_LOG_FILE"        envDefault:""`
	AcquireTimeout int     `env:"SG_ACQUIRE_TIMEOUT" envDefault:"600"`
}

type envService struct {
	cfg envConfig
}

// NewEnv builds a config service from environment variables, falling back to
// the documented defaults.
func NewEnv() (IService, error) {
	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &envService{cfg: cfg}, nil
}

func (svc *envService) GetVideosFolder() string {
	return svc.cfg.VideosFolder
}

func (svc *envService) GetImagesFolder() string {
	return svc.cfg.ImagesFolder
}

func (svc *envService) GetMSEThreshold() float64 {
	return svc.cfg.MSEThreshold
}

func (svc *envService) GetLogLevel() string {
	return svc.cfg.LogLevel
}

func (svc *envService) GetLogFile() string {
	return svc.cfg.LogFile
}

func (svc *envService) GetAcquireTimeout() int {
	return svc.cfg.AcquireTimeout
}
