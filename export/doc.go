// Package export writes a rekordbox-style USB export from a track
// collection.
//
// An export has three phases:
//
//  1. Plan: the collection is turned into PDB rows. Artists, albums, genres,
//     labels and keys are deduplicated and numbered from 1; every track gets a
//     destination under /Contents and an analysis directory under
//     /PIONEER/USBANLZ.
//  2. Tracks: a bounded worker pool synthesizes ANLZ0000.DAT and
//     ANLZ0000.EXT for every track and copies its audio and artwork. Each
//     worker writes only the files of its own track.
//  3. Database: export.pdb is encoded once and written atomically to
//     PIONEER/rekordbox/export.pdb.
//
// Audio samples, artwork and file tags come from collaborators
// (SampleSource, ArtworkSource, TagSource); the package itself never decodes
// audio or images.
package export
