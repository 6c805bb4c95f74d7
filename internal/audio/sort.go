package audio

import (
	"sort"

	"github.com/handiism/newbeach/internal/model"
)

// SortTracks orders tracks by playlist index, ascending.
//
// Tracks without an index carry model.UnknownIndex and end up last. Equal
// indexes are ordered by file name, so the order does not depend on the
// directory listing and sorting a sorted slice changes nothing.
func SortTracks(tracks []*model.Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		if tracks[i].Index != tracks[j].Index {
			return tracks[i].Index < tracks[j].Index
		}
		return tracks[i].FileName < tracks[j].FileName
	})
}
