// Package audio manages named audio tracks over a shared output device:
// loading, playback state, per-track and master volume, mute, and fade
// ramps. A single Manager is created at startup and handed to consumers.
package audio
