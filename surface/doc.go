// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the pixel buffers that pages are rendered into.
//
// A Surface is a fixed-size RGBA canvas with the two primitives a page
// compositor needs: solid rectangle fills and scaled image composition.
// Rasterization of page content happens elsewhere; a Surface only stores
// and combines pixels.
//
// # Surface Types
//
//   - ImageSurface: CPU surface backed by *image.RGBA
//   - Third-party backends via registry
//
// # Registry
//
// Backends register a factory under a name and priority:
//
//	surface.Register(surface.Backend{
//	    Name:      "shm",
//	    Priority:  50,
//	    Alpha:     true,
//	    Factory:   newSharedMemorySurface,
//	    Available: shmAvailable,
//	})
//
//	// Later:
//	s, err := surface.FactoryByName("shm")(surface.DefaultOptions(800, 600))
//
// DefaultFactory picks the highest priority backend that is available and
// can serve the requested Options. The built-in "image" backend is always
// available.
//
// # Usage
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.FillRect(image.Rect(10, 10, 110, 110), color.White)
//	s.DrawScaled(thumb, image.Rect(200, 10, 300, 140), surface.FilterCatmullRom)
//
//	img := s.Snapshot()
//
// Surfaces are NOT safe for concurrent use.
package surface
