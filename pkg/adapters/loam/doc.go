// Package loam stores node and crosswalk documents as plain files through Loam.
//
// Every directory is opened as its own Loam repository and a document is addressed
// by its file name, extension included, so the extension picks the format
// (.json, .yaml, .md front matter).
package loam
