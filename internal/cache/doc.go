// Package cache provides a small generic cache with a soft size limit.
//
//	c := cache.New[float64, font.Face](4, func(_ float64, f font.Face) {
//	    _ = f.Close()
//	})
//	face, err := c.GetOrCreate(12, func() (font.Face, error) {
//	    return opentype.NewFace(fnt, &opentype.FaceOptions{Size: 12, DPI: 72})
//	})
//
// When the soft limit is exceeded, the least recently used quarter of the
// entries is evicted and handed to the eviction callback, so cached values
// that hold resources can release them.
//
// # Thread Safety
//
// Cache is safe for concurrent use. The cached values are shared, so values
// that are not themselves safe for concurrent use need a cache per user.
package cache
