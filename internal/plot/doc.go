// Package plot renders a function over an interval to a PNG image and hands
// the saved file to the platform image viewer.
//
// The plot is a side task of an integration run: it reads the same
// [function.Function] and bounds but never touches the accumulator, and its
// failures are reported as warnings that leave the integration total intact.
//
// # File Names
//
// [NormalizeFileName] rejects blank names and appends ".png" when the name
// does not already end in it (case-insensitive). [ResolvePath] places relative
// names in the configured directory, or in the user's Desktop when one exists,
// falling back to the working directory.
//
// # Viewer
//
// [SystemViewer] launches xdg-open, open or rundll32 depending on the
// platform, always on the exact path the image was saved to.
package plot
