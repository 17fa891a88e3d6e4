package forecast

import "github.com/aouyang1/go-powercast/feature"

// Options configures a forecast. Features controls how calendar features are derived for
// each forecasted day.
type Options struct {
	Features *feature.Options
}

// NewDefaultOptions returns options evaluating every forecasted day at noon without holidays
func NewDefaultOptions() *Options {
	return &Options{
		Features: feature.NewDefaultOptions(),
	}
}

func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	featOpt, err := o.Features.Validate()
	if err != nil {
		return nil, err
	}
	o.Features = featOpt
	return o, nil
}
