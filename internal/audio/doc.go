// Package audio turns a batch directory of downloaded audio files into
// the artifacts a listener uses: a playlist, a link index and ID3 tags.
//
// # Metadata Files
//
// MetadataWriter lists the audio files of a batch directory, sorts them by
// the playlist index embedded in their names and writes the playlist and
// the link index next to them:
//
//	writer := audio.NewMetadataWriter(audio.DefaultMetadataConfig())
//	playlist, tracks, err := writer.Write(dir, batch)
//
// Links are resolved through the Batch mapping recorded by the
// downloader, so a failed download never shifts the links of the files
// after it.
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, false) // plain listing
//	content := creator.CreatePlaylist(tracks)
//
// Supported formats:
//   - M3U (plain, or extended with #EXTINF lines)
//   - PLS
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, audio.TagInfo{Title: "Alpha", Index: 1, SourceURL: link}, artwork)
package audio
