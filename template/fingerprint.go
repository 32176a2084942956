package template

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/types"
)

// Digest is a 32-byte BLAKE3 fingerprint of a signature.
type Digest [32]byte

// String returns the hex encoding of the digest.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// fingerprintKey separates signature fingerprints from any other BLAKE3
// keyed hash. It is the ASCII of the domain name, zero-padded.
var fingerprintKey = [32]byte{
	's', 'e', 'm', 'o', 't', 't', 'r', '.', 's', 'i', 'g', 'n', 'a', 't', 'u', 'r',
	'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// encMode uses Core Deterministic Encoding so equal definitions always
// produce identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("template: CBOR encoder initialization failed: " + err.Error())
	}
}

type encodedTerm struct {
	Kind     int           `cbor:"1,keyasint"`
	ID       string        `cbor:"2,keyasint,omitempty"`
	Datatype string        `cbor:"3,keyasint,omitempty"`
	Lang     string        `cbor:"4,keyasint,omitempty"`
	Variable bool          `cbor:"5,keyasint,omitempty"`
	Elements []encodedTerm `cbor:"6,keyasint,omitempty"`
}

type encodedParameter struct {
	Variable encodedTerm  `cbor:"1,keyasint"`
	Type     string       `cbor:"2,keyasint"`
	Optional bool         `cbor:"3,keyasint,omitempty"`
	NonBlank bool         `cbor:"4,keyasint,omitempty"`
	Default  *encodedTerm `cbor:"5,keyasint,omitempty"`
}

type encodedInstance struct {
	IRI      string        `cbor:"1,keyasint"`
	Args     []encodedTerm `cbor:"2,keyasint"`
	Marked   []bool        `cbor:"3,keyasint"`
	Expander int           `cbor:"4,keyasint,omitempty"`
}

type encodedSignature struct {
	Kind    int                `cbor:"1,keyasint"`
	IRI     string             `cbor:"2,keyasint"`
	Params  []encodedParameter `cbor:"3,keyasint"`
	Pattern []encodedInstance  `cbor:"4,keyasint,omitempty"`
}

// Fingerprint returns a digest identifying the definition of sig: its
// variant, IRI, parameters and body. Type annotations on arguments are not
// part of the digest.
func Fingerprint(sig Signature) (Digest, error) {
	enc := encodedSignature{Kind: int(sig.Kind()), IRI: sig.IRI()}
	for _, p := range sig.Parameters() {
		ep := encodedParameter{
			Variable: encodeTerm(p.variable),
			Type:     typeKey(p.typ),
			Optional: p.optional,
			NonBlank: p.nonBlank,
		}
		if p.def != nil {
			d := encodeTerm(p.def)
			ep.Default = &d
		}
		enc.Params = append(enc.Params, ep)
	}
	if tpl, ok := sig.(Template); ok {
		for _, inst := range tpl.pattern {
			ei := encodedInstance{IRI: inst.iri, Expander: int(inst.expander)}
			for _, a := range inst.args {
				ei.Args = append(ei.Args, encodeTerm(a.term))
				ei.Marked = append(ei.Marked, a.listExpander)
			}
			enc.Pattern = append(enc.Pattern, ei)
		}
	}

	data, err := encMode.Marshal(enc)
	if err != nil {
		return Digest{}, fmt.Errorf("encoding signature %s: %w", sig.IRI(), err)
	}
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("template: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d, nil
}

func encodeTerm(t term.Term) encodedTerm {
	e := encodedTerm{Kind: int(t.Kind()), ID: t.Identifier(), Variable: t.IsVariable()}
	switch x := t.(type) {
	case term.Literal:
		e.Datatype = x.Datatype()
		e.Lang = x.Lang()
	case term.List:
		for _, el := range x.Elements() {
			e.Elements = append(e.Elements, encodeTerm(el))
		}
	}
	return e
}

// typeKey spells a type with full IRIs.
func typeKey(t types.Type) string {
	switch x := t.(type) {
	case types.List:
		return "List<" + typeKey(x.Inner()) + ">"
	case types.NEList:
		return "NEList<" + typeKey(x.Inner()) + ">"
	case types.LUB:
		return "LUB<" + typeKey(x.Inner()) + ">"
	default:
		return t.IRI()
	}
}
