// Package player launches the local media player against a batch playlist.
//
// The player is an external program, mpv by default, looked up on PATH:
//
//	p := player.New("mpv")
//	if _, ok := p.Available(); !ok {
//	    // report and finish; the downloaded files stay in place
//	}
//	err := p.Play(ctx, dir, filepath.Join(dir, "playlist.m3u"))
//
// Play blocks until the player exits and shares the terminal with it.
// Command returns the unstarted process for callers that need to hand the
// terminal over themselves, such as the TUI.
package player
