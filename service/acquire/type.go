package acquire

import "context"

type IService interface {
	// ResolveID extracts the stable video identifier from a locator.
	ResolveID(url string) (string, error)
	// Fetch downloads the video to destPath as a decodable local file.
	Fetch(ctx context.Context, url string, destPath string) error
}
