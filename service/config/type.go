package config

type IService interface {
	GetVideosFolder() string
	GetImagesFolder() string
	GetMSEThreshold() float64
	GetLogLevel() string
	GetLogFile() string
	GetAcquireTimeout() int
}
