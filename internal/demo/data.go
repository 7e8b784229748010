// Package demo wires the teaching components together: a JSON API the fetch
// demos load from, page handlers built on the resource, store, provide, and
// form packages, and a live counter endpoint.
package demo

// Post is a demo article.
type Post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// User is a demo account.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// seedPosts is the fixed dataset served by the demo API.
var seedPosts = []Post{
	{ID: 1, Title: "Signals from first principles", Body: "A value container that knows its readers."},
	{ID: 2, Title: "Fetching without races", Body: "Generation counters make late responses harmless."},
	{ID: 3, Title: "Reducers, three actions at a time", Body: "Increment, decrement, reset."},
}

var seedUsers = []User{
	{ID: 1, Name: "Ada", Email: "ada@example.com"},
	{ID: 2, Name: "Grace", Email: "grace@example.com"},
}

func findPost(id int) (Post, bool) {
	for _, p := range seedPosts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

func findUser(id int) (User, bool) {
	for _, u := range seedUsers {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
