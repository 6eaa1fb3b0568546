package memo

// Kind is the kind of a declared parameter.
type Kind uint8

const (
	// Required is a required positional parameter.
	Required Kind = iota
	// Optional is a positional parameter with a default.
	Optional
	// Rest collects any remaining positional arguments.
	Rest
	// KeyRequired is a required keyword parameter.
	KeyRequired
	// KeyOptional is a keyword parameter with a default.
	KeyOptional
	// KeyRest collects any remaining keyword arguments.
	KeyRest
	// Block is a trailing callback parameter. Methods declaring one are
	// rejected at registration.
	Block
)

func (k Kind) positional() bool {
	return k == Required || k == Optional || k == Rest
}

func (k Kind) keyword() bool {
	return k == KeyRequired || k == KeyOptional || k == KeyRest
}

func (k Kind) String() string {
	switch k {
	case Required:
		return "req"
	case Optional:
		return "opt"
	case Rest:
		return "rest"
	case KeyRequired:
		return "keyreq"
	case KeyOptional:
		return "key"
	case KeyRest:
		return "keyrest"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

// Param is one declared parameter of a memoizable method.
type Param struct {
	Kind Kind
	Name string
}

// Req, Opt, RestOf, KeyReq, KeyOpt and KeyRestOf build Params.
func Req(name string) Param       { return Param{Kind: Required, Name: name} }
func Opt(name string) Param       { return Param{Kind: Optional, Name: name} }
func RestOf(name string) Param    { return Param{Kind: Rest, Name: name} }
func KeyReq(name string) Param    { return Param{Kind: KeyRequired, Name: name} }
func KeyOpt(name string) Param    { return Param{Kind: KeyOptional, Name: name} }
func KeyRestOf(name string) Param { return Param{Kind: KeyRest, Name: name} }

// Shape classifies a parameter list. It decides both how a call's arguments
// become a cache key and where the entry is stored.
type Shape uint8

const (
	None Shape = iota
	OnePositional
	OneKeyword
	MultipleRequired
	Splat
	DoubleSplat
	SplatAndDoubleSplat
)

func (s Shape) String() string {
	switch s {
	case None:
		return "none"
	case OnePositional:
		return "one_positional"
	case OneKeyword:
		return "one_keyword"
	case MultipleRequired:
		return "multiple_required"
	case Splat:
		return "splat"
	case DoubleSplat:
		return "double_splat"
	case SplatAndDoubleSplat:
		return "splat_and_double_splat"
	default:
		return "unknown"
	}
}

// hashed reports whether entries of this shape live in the owner-wide hashed
// table rather than a per-method slot or map.
func (s Shape) hashed() bool {
	return s >= MultipleRequired
}

// Classify maps a parameter list to its Shape. Rules are evaluated in order
// and the first match wins.
func Classify(params []Param) Shape {
	if len(params) == 0 {
		return None
	}
	if len(params) == 1 {
		switch params[0].Kind {
		case Required:
			return OnePositional
		case KeyRequired:
			return OneKeyword
		}
	}

	allRequired, allPositional, allKeyword := true, true, true
	for _, p := range params {
		if p.Kind != Required && p.Kind != KeyRequired {
			allRequired = false
		}
		if !p.Kind.positional() {
			allPositional = false
		}
		if !p.Kind.keyword() {
			allKeyword = false
		}
	}

	switch {
	case allRequired && len(params) >= 2:
		return MultipleRequired
	case allPositional:
		return Splat
	case allKeyword:
		return DoubleSplat
	default:
		return SplatAndDoubleSplat
	}
}
