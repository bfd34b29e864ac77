package deck

// IService assembles persisted slide images, in the given order, into a
// viewable deck. It never re-orders or filters: its output is exactly as
// correct as the kept-frame sequence it receives.
type IService interface {
	Build(images []string, deckPath string) error
}
