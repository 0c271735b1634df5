package app

import (
	"github.com/specialistvlad/recipegrid/internal/registry"
	"github.com/specialistvlad/recipegrid/modules/combine"
	"github.com/specialistvlad/recipegrid/modules/filter"
	"github.com/specialistvlad/recipegrid/modules/numeric"
	"github.com/specialistvlad/recipegrid/modules/reduce"
)

// coreModules is the definitive list of all modules that are compiled into
// the recipegrid binary.
var coreModules = []registry.Module{
	&numeric.Module{},
	&filter.Module{},
	&reduce.Module{},
	&combine.Module{},
}
