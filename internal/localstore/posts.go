package localstore

import (
	"encoding/json"
	"log"

	"gigaaura/internal/models"
)

const (
	keyPostsFeed = "giga_aura_posts"    // flat posts list
	keyPostIDs   = "giga_aura_post_ids" // id index, newest first
)

// WritePosts caches the feed and its id index.
func (s *Store) WritePosts(posts []models.Post) {
	b, err := json.Marshal(posts)
	if err != nil {
		log.Printf("[localstore] marshal posts: %v", err)
		return
	}
	s.Set(keyPostsFeed, b)
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	if b, err = json.Marshal(ids); err == nil {
		s.Set(keyPostIDs, b)
	}
}

// ReadPosts returns the cached feed, ok=false on miss or corrupt data.
func (s *Store) ReadPosts() ([]models.Post, bool) {
	raw, ok := s.Get(keyPostsFeed)
	if !ok {
		return nil, false
	}
	var posts []models.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		log.Printf("[localstore] corrupt posts cache, skipping: %v", err)
		return nil, false
	}
	return posts, true
}
