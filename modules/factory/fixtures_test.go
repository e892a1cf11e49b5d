package factory

import (
	"context"
	"fmt"

	"EntityFactory/modules/kit/collection"
	"EntityFactory/modules/kit/fieldx"

	"github.com/brianvoe/gofakeit/v7"
)

// 测试用的小型领域：author 1-N book，book N-N label，review 只能通过构造器拿到 book。

type author struct {
	name     string
	admin    bool
	mentor   *author
	books    *collection.List[*book]
	followed *collection.List[*author]
}

func newAuthor(name string) *author {
	return &author{name: name, books: collection.NewList[*book](), followed: collection.NewList[*author]()}
}

func (a *author) AssignField(name string, v any) (bool, error) {
	switch name {
	case "name":
		return true, fieldx.Assign(&a.name, name, v)
	case "admin":
		return true, fieldx.Assign(&a.admin, name, v)
	case "mentor":
		return true, fieldx.Assign(&a.mentor, name, v)
	}
	return false, nil
}

func (a *author) CollectionField(name string) (Collection, bool) {
	switch name {
	case "books":
		return a.books, true
	case "followed":
		return a.followed, true
	}
	return nil, false
}

type book struct {
	title     string
	published bool
	author    *author
	labels    *collection.List[*label]
	shelves   *collection.List[*shelf]
}

func (b *book) AssignField(name string, v any) (bool, error) {
	switch name {
	case "title":
		return true, fieldx.Assign(&b.title, name, v)
	case "published":
		return true, fieldx.Assign(&b.published, name, v)
	case "author":
		return true, fieldx.Assign(&b.author, name, v)
	}
	return false, nil
}

func (b *book) CollectionField(name string) (Collection, bool) {
	switch name {
	case "labels":
		if b.labels == nil {
			b.labels = collection.NewList[*label]()
		}
		return b.labels, true
	case "shelves":
		if b.shelves == nil {
			b.shelves = collection.NewList[*shelf]()
		}
		return b.shelves, true
	}
	return nil, false
}

type label struct {
	name  string
	books *collection.List[*book]
}

func (l *label) CollectionField(name string) (Collection, bool) {
	if name == "books" && l.books != nil {
		return l.books, true
	}
	return nil, false
}

// shelf 没有构造器，books 字段保持 nil，CollectionField 照样把它交出去。
type shelf struct {
	books *collection.List[*book]
}

func (s *shelf) CollectionField(name string) (Collection, bool) {
	if name == "books" {
		return s.books, true
	}
	return nil, false
}

type review struct {
	body     string
	book     *book
	reviewer *author
}

// stamp 没有任何友元入口。
type stamp struct{ code string }

type recorder struct {
	calls     []string
	persisted []any
	flushErr  error
}

func (r *recorder) Persist(_ context.Context, e any) error {
	r.calls = append(r.calls, "persist:"+typeName(e))
	r.persisted = append(r.persisted, e)
	return nil
}

func (r *recorder) Flush(context.Context) error {
	r.calls = append(r.calls, "flush")
	return r.flushErr
}

func (r *recorder) Contains(e any) bool {
	for _, p := range r.persisted {
		if p == e {
			return true
		}
	}
	return false
}

func (r *recorder) Find(_ context.Context, model string, id int64) (any, error) {
	return nil, fmt.Errorf("recorder: find %s#%d not supported", model, id)
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

type testFactories struct {
	rec     *recorder
	authors *Factory[*author]
	books   *Factory[*book]
	labels  *Factory[*label]
	reviews *Factory[*review]
	reg     *Registry
}

func newTestFactories() *testFactories {
	rec := &recorder{}
	opts := []Option{WithPersister(rec), WithFaker(gofakeit.New(42))}

	authors := Define(Blueprint[*author]{
		Name:   "Author",
		Params: []Param{{Name: "name"}},
		New: func(args Args) (*author, error) {
			name, err := Arg[string](args, "name")
			if err != nil {
				return nil, err
			}
			return newAuthor(name), nil
		},
		Relations: map[string]Relation{
			"mentor":   Parent("Author"),
			"followed": Peers("Author", "followed"),
		},
	}, func(f *gofakeit.Faker) Definition {
		return Definition{
			F("name", f.Name()),
			F("admin", false),
		}
	}, opts...)

	books := Define(Blueprint[*book]{Name: "Book"}, func(f *gofakeit.Faker) Definition {
		return Definition{
			F("title", f.Word()),
			F("published", false),
			F("author", authors),
		}
	}, opts...)

	labels := Define(Blueprint[*label]{
		Name:   "Label",
		Params: []Param{{Name: "name"}},
		New: func(args Args) (*label, error) {
			name, err := Arg[string](args, "name")
			if err != nil {
				return nil, err
			}
			return &label{name: name, books: collection.NewList[*book]()}, nil
		},
	}, func(f *gofakeit.Faker) Definition {
		return Definition{F("name", f.Word())}
	}, opts...)

	reviews := Define(Blueprint[*review]{
		Name:   "Review",
		Params: []Param{{Name: "body"}, {Name: "book"}, {Name: "reviewer", Optional: true}},
		New: func(args Args) (*review, error) {
			body, err := Arg[string](args, "body")
			if err != nil {
				return nil, err
			}
			b, err := Arg[*book](args, "book")
			if err != nil {
				return nil, err
			}
			r, err := Arg[*author](args, "reviewer")
			if err != nil {
				return nil, err
			}
			return &review{body: body, book: b, reviewer: r}, nil
		},
	}, func(f *gofakeit.Faker) Definition {
		return Definition{F("body", f.Sentence(6))}
	}, opts...)

	return &testFactories{
		rec:     rec,
		authors: authors,
		books:   books,
		labels:  labels,
		reviews: reviews,
		reg:     NewRegistry(authors, books, labels, reviews),
	}
}
