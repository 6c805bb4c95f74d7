// Package model defines the core data structures used throughout
// newbeach.
//
// # Batch
//
// Batch is the ordered mapping built once per run from the discovered
// submission links. Every later stage consults it instead of re-deriving
// the link order from file names:
//
//	batch := model.NewBatch([]string{"https://www.newgrounds.com/audio/listen/1"})
//	sub, _ := batch.ByIndex(1)
//	fmt.Println(sub.URL)
//
// The downloader records the outcome of every submission (file name,
// title, failure reason) on the batch.
//
// # Track
//
// Track is one audio file found in the output directory, as listed by
// the metadata writer:
//
//	track := model.NewTrack("1 - Song Title.mp3", "/music/newbeach/0108")
//	fmt.Println(track.Index) // 1
//
// # File Names
//
// FileName computes the deterministic "N - Title.ext" name used on disk:
//
//	model.FileName(3, "Song: Part 1/2", ".mp3") // "3 - Song_ Part 1_2.mp3"
package model
