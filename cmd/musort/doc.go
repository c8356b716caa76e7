// Command musort sorts music libraries into a canonical
// genre/artist/album layout driven by embedded tags.
package main
