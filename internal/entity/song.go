// internal/entity/song.go
//
// `songs` table binding.
//
// Schema reference (2025-11-20)
//
//	CREATE TABLE songs (
//	    id           INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    song_title   VARCHAR(128)  NOT NULL,
//	    artist_name  VARCHAR(128)  NOT NULL,
//	    album_name   VARCHAR(128)  NULL,
//	    genre        VARCHAR(64)   NULL,
//	    release_date DATE NULL,
//	    song         VARCHAR(256)  NOT NULL,   -- audio asset path
//	    cover_art    VARCHAR(256)  NULL,
//	    description  TEXT NULL,
//	    duration     VARCHAR(16)   NULL,
//	    user_id      INT UNSIGNED  NOT NULL,
//	    upload_date  DATETIME NULL,
//	    isrc_code    VARCHAR(16)   NULL,
//	    published    TINYINT(1)    NOT NULL DEFAULT 0,
//	    tag_id       INT UNSIGNED  NULL,
//	    created_at   DATETIME NOT NULL,
//	    updated_at   DATETIME NOT NULL,
//	    deleted_at   DATETIME NULL
//	);
package entity

import "github.com/surgemusic/surge/internal/record"

// Songs describes the songs table for the data mapper.
var Songs = record.Table{
	Name:       "songs",
	Timestamps: true,
	Fillable: []string{
		"song_title",
		"artist_name",
		"album_name",
		"genre",
		"release_date",
		"song",
		"cover_art",
		"description",
		"duration",
		"user_id",
		"upload_date",
		"isrc_code",
		"published",
		"tag_id",
		"created_at",
		"updated_at",
		"deleted_at",
	},
}

// Song wraps a songs row with typed accessors.
type Song struct{ *record.Record }

// AsSong binds a record to the Song accessors.
func AsSong(r *record.Record) Song { return Song{r} }

// Title returns the song title.
func (s Song) Title() string { return s.GetString("song_title") }

// Artist returns the artist name.
func (s Song) Artist() string { return s.GetString("artist_name") }

// OwnerID returns the uploading user's id.
func (s Song) OwnerID() (int64, bool) { return s.GetInt64("user_id") }

// Published reports whether the song is publicly visible.
func (s Song) Published() bool { return s.GetBool("published") }
