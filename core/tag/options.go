package tag

// Options configures ApplyDefaults.
type Options struct {
	tagName   string
	maxDepth  int
	separator string
	parser    ValueParser
}

type Option func(*Options)

// WithTagName changes the tag looked up, "default" otherwise.
func WithTagName(name string) Option {
	return func(o *Options) {
		o.tagName = name
	}
}

func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.maxDepth = depth
	}
}

// WithSeparator changes the slice element separator, "," otherwise.
func WithSeparator(sep string) Option {
	return func(o *Options) {
		o.separator = sep
	}
}

func WithParser(parser ValueParser) Option {
	return func(o *Options) {
		o.parser = parser
	}
}

func newOptions(opts []Option) *Options {
	options := &Options{
		tagName:   "default",
		maxDepth:  32,
		separator: ",",
		parser:    defaultParser{},
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
