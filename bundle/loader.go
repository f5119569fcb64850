package bundle

import (
	_ "embed"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"

	"vimagination.zapto.org/javascript"
	"vimagination.zapto.org/parser"
)

// RuntimeMarker is the name of the module loader defined by the runtime
// bootstrap; it appears in every runtime chunk.
const RuntimeMarker = "__bundle_require__"

//go:embed runtime.js
var runtimeJS string

var runtimeSource = sync.OnceValues(func() (string, error) {
	m, err := parseModule(runtimeJS)
	if err != nil {
		return "", fmt.Errorf("error parsing runtime: %w", err)
	}

	return printModule(m), nil
})

func jToken(data string) *javascript.Token {
	return &javascript.Token{Token: parser.Token{Data: data}}
}

func parseModule(src string) (*javascript.Module, error) {
	tk := parser.NewStringTokeniser(src)

	return javascript.ParseModule(&tk)
}

func printModule(m *javascript.Module) string {
	return strings.TrimSpace(fmt.Sprintf("%s", m))
}

func moduleID(file string) string {
	return "./" + strings.TrimPrefix(path.Clean("/"+file), "/")
}

func literal(s string) javascript.AssignmentExpression {
	return javascript.AssignmentExpression{
		ConditionalExpression: javascript.WrapConditional(&javascript.PrimaryExpression{
			Literal: jToken(strconv.Quote(s)),
		}),
	}
}

// moduleBody extracts the statements of a parsed module so that they can be
// placed in a function body.
func moduleBody(m *javascript.Module, file string) ([]javascript.StatementListItem, error) {
	body := make([]javascript.StatementListItem, 0, len(m.ModuleListItems))

	for _, item := range m.ModuleListItems {
		if item.ImportDeclaration != nil || item.ExportDeclaration != nil {
			return nil, fmt.Errorf("error wrapping module %s: %w", file, ErrModuleSyntax)
		}

		if item.StatementListItem != nil {
			body = append(body, *item.StatementListItem)
		}
	}

	return body, nil
}

// makeRegistration builds the statement that hands a chunk's modules to the
// runtime:
//
//	globalThis.__bundle_register__(["name"], {"./file.js": (module, exports, require) => {...}}, "./file.js");
func makeRegistration(chunkName, id string, body []javascript.StatementListItem) *javascript.Module {
	globalThis := &javascript.MemberExpression{
		PrimaryExpression: &javascript.PrimaryExpression{
			IdentifierReference: jToken("globalThis"),
		},
	}
	params := &javascript.FormalParameters{
		FormalParameterList: []javascript.BindingElement{
			{
				SingleNameBinding: jToken("module"),
			},
			{
				SingleNameBinding: jToken("exports"),
			},
			{
				SingleNameBinding: jToken("require"),
			},
		},
	}
	modules := &javascript.ObjectLiteral{
		PropertyDefinitionList: []javascript.PropertyDefinition{
			{
				PropertyName: &javascript.PropertyName{
					LiteralPropertyName: jToken(strconv.Quote(id)),
				},
				AssignmentExpression: &javascript.AssignmentExpression{
					ArrowFunction: &javascript.ArrowFunction{
						FormalParameters: params,
						FunctionBody: &javascript.Block{
							StatementList: body,
						},
					},
				},
			},
		},
	}
	chunkNames := &javascript.ArrayLiteral{
		ElementList: []javascript.ArrayElement{
			{
				AssignmentExpression: literal(chunkName),
			},
		},
	}
	register := javascript.StatementListItem{
		Statement: &javascript.Statement{
			ExpressionStatement: &javascript.Expression{
				Expressions: []javascript.AssignmentExpression{
					{
						ConditionalExpression: javascript.WrapConditional(&javascript.CallExpression{
							MemberExpression: &javascript.MemberExpression{
								MemberExpression: globalThis,
								IdentifierName:   jToken("__bundle_register__"),
							},
							Arguments: &javascript.Arguments{
								ArgumentList: []javascript.Argument{
									{
										AssignmentExpression: javascript.AssignmentExpression{
											ConditionalExpression: javascript.WrapConditional(chunkNames),
										},
									},
									{
										AssignmentExpression: javascript.AssignmentExpression{
											ConditionalExpression: javascript.WrapConditional(modules),
										},
									},
									{
										AssignmentExpression: literal(id),
									},
								},
							},
						}),
					},
				},
			},
		},
	}

	return &javascript.Module{
		ModuleListItems: []javascript.ModuleItem{
			{
				StatementListItem: &register,
			},
		},
	}
}

// entryCode loads, checks and wraps an entry module.
func entryCode(chunkName, file, src string) (string, error) {
	m, err := parseModule(src)
	if err != nil {
		return "", fmt.Errorf("error parsing module %s: %w", file, err)
	}

	body, err := moduleBody(m, file)
	if err != nil {
		return "", err
	}

	return printModule(makeRegistration(chunkName, moduleID(file), body)), nil
}
