package shortener

import "context"

// CodeChecker reports whether a code is already in use anywhere in the
// shared lookup namespace.
type CodeChecker func(ctx context.Context, code string) (bool, error)

// Issuer hands out unused short codes. Generated candidates pass through
// the bloom filter first: a miss there means the code was never issued, so
// the database check is skipped entirely.
type Issuer struct {
	gen      *Generator
	filter   *CodeFilter
	exists   CodeChecker
	attempts int
}

// NewIssuer creates an issuer with the given collision-retry bound.
func NewIssuer(gen *Generator, filter *CodeFilter, exists CodeChecker, attempts int) *Issuer {
	return &Issuer{
		gen:      gen,
		filter:   filter,
		exists:   exists,
		attempts: attempts,
	}
}

// Issue generates a fresh code for the category, retrying on collision up
// to the configured bound. Exhaustion returns ErrCodeTaken.
func (i *Issuer) Issue(ctx context.Context, category Category) (string, error) {
	for attempt := 0; attempt < i.attempts; attempt++ {
		code := i.gen.Generate(category)

		if i.filter.MightContain(code) {
			taken, err := i.exists(ctx, code)
			if err != nil {
				return "", err
			}

			if taken {
				continue
			}
		}

		i.filter.Add(code)

		return code, nil
	}

	return "", ErrCodeTaken
}

// Claim reserves a caller-chosen code, returning ErrCodeTaken if it is
// already in use.
func (i *Issuer) Claim(ctx context.Context, code string) error {
	if i.filter.MightContain(code) {
		taken, err := i.exists(ctx, code)
		if err != nil {
			return err
		}

		if taken {
			return ErrCodeTaken
		}
	}

	i.filter.Add(code)

	return nil
}
