package cache

// Disabled is the cache used when no root directory is configured
type Disabled[T any] struct{}

func (Disabled[T]) Path(Key) (string, bool) { return "", false }
func (Disabled[T]) Write(Key, T)            {}
func (Disabled[T]) Remove(Key)              {}
func (Disabled[T]) Wait()                   {}

func (Disabled[T]) Read(Key) (T, bool) {
	var zero T
	return zero, false
}
