// Package audio post-processes finished downloads: ID3 tagging, tag
// reading, cover export and playlist generation.
//
// # ID3 Tagging
//
// The Tagger records where an MP3 came from:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(item) // WOAS + "Source" comment
//
// # Reading Tags
//
//	md, err := audio.ReadMetadata("/music/Song.mp3")
//	fmt.Println(md.Artist, "-", md.Title)
//
// # Cover Export
//
//	path, err := audio.ExportCover("/music/Song.mp3", 1000) // writes /music/Song.jpg
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U)
//	n, err := creator.Write("/music/session.m3u", manager.Snapshot())
//
// Supported formats:
//   - M3U (extended)
//   - PLS
package audio
