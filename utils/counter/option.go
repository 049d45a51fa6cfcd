package counter

import "go.uber.org/zap"

type Options struct {
	total int
	desc  string
	log   *zap.SugaredLogger
}

type Option func(*Options)

func WithTotal(total int) Option {
	return func(o *Options) {
		o.total = total
	}
}

func WithDesc(desc string) Option {
	return func(o *Options) {
		o.desc = desc
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *Options) {
		o.log = log
	}
}
