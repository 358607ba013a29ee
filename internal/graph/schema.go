package graph

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/graphql-go/graphql"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/order"
	"Storefront/internal/session"
)

// Resolver backs the schema. Cart and order operations act on the cart of
// the request's session.
type Resolver struct {
	Catalog *catalog.Catalog
	Carts   cart.Registry
	Orders  *order.Service
}

func (res *Resolver) cart(ctx context.Context) cart.Handle {
	return cart.For(res.Carts, session.FromContext(ctx))
}

func NewSchema(res *Resolver) (graphql.Schema, error) {
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":               productField(graphql.NewNonNull(graphql.ID), func(p catalog.Product) any { return p.ID }),
			"name":             productField(graphql.NewNonNull(graphql.String), func(p catalog.Product) any { return p.Name }),
			"shortDescription": productField(graphql.NewNonNull(graphql.String), func(p catalog.Product) any { return p.ShortDescription }),
			"longDescription":  productField(graphql.NewNonNull(graphql.String), func(p catalog.Product) any { return p.LongDescription }),
			"price":            productField(graphql.NewNonNull(graphql.Float), func(p catalog.Product) any { return p.Price.InexactFloat64() }),
			"rating":           productField(graphql.NewNonNull(graphql.Float), func(p catalog.Product) any { return p.Rating }),
			"imageUrl": productField(graphql.String, func(p catalog.Product) any {
				if p.ImageURL == "" {
					return nil
				}
				return p.ImageURL
			}),
		},
	})

	cartItemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CartItem",
		Fields: graphql.Fields{
			"id":        lineField(graphql.NewNonNull(graphql.ID), func(l cart.Line) any { return l.ID }),
			"productId": lineField(graphql.NewNonNull(graphql.ID), func(l cart.Line) any { return l.ProductID }),
			"quantity":  lineField(graphql.NewNonNull(graphql.Int), func(l cart.Line) any { return l.Quantity }),
			"product":   lineField(graphql.NewNonNull(productType), func(l cart.Line) any { return l.Product }),
		},
	})

	cartType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Cart",
		Fields: graphql.Fields{
			"items": cartField(nonNullList(cartItemType), func(c cart.Cart) any { return c.Items }),
			"count": cartField(graphql.NewNonNull(graphql.Int), func(c cart.Cart) any { return c.Count }),
			"total": cartField(graphql.NewNonNull(graphql.Float), func(c cart.Cart) any { return c.Total.InexactFloat64() }),
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":       orderField(graphql.NewNonNull(graphql.ID), func(o order.Order) any { return o.ID }),
			"items":    orderField(nonNullList(cartItemType), func(o order.Order) any { return o.Items }),
			"count":    orderField(graphql.NewNonNull(graphql.Int), func(o order.Order) any { return o.Count }),
			"total":    orderField(graphql.NewNonNull(graphql.Float), func(o order.Order) any { return o.Total.InexactFloat64() }),
			"placedAt": orderField(graphql.NewNonNull(graphql.String), func(o order.Order) any { return o.PlacedAt.Format(time.RFC3339) }),
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: nonNullList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return res.Catalog.List(), nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					prod, ok := res.Catalog.Get(id)
					if !ok {
						return nil, nil
					}
					return prod, nil
				},
			},
			"cart": &graphql.Field{
				Type: graphql.NewNonNull(cartType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					c, err := res.cart(p.Context).Snapshot()
					if err != nil {
						return nil, classify(err)
					}
					return c, nil
				},
			},
			"cartCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return res.cart(p.Context).Count(), nil
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					o, ok, err := res.Orders.Get(p.Context, session.FromContext(p.Context), id)
					if err != nil {
						return nil, classify(err)
					}
					if !ok {
						return nil, nil
					}
					return o, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addToCart": &graphql.Field{
				Type: graphql.NewNonNull(cartItemType),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"quantity":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					productID, _ := p.Args["productId"].(string)
					quantity, ok := p.Args["quantity"].(int)
					if !ok {
						return nil, classify(&cart.InvalidQuantityError{})
					}
					line, err := res.cart(p.Context).Add(productID, quantity)
					if err != nil {
						return nil, classify(err)
					}
					return line, nil
				},
			},
			"removeFromCart": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"itemId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					itemID, _ := p.Args["itemId"].(string)
					return res.cart(p.Context).Remove(itemID), nil
				},
			},
			"clearCart": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return res.cart(p.Context).Clear(), nil
				},
			},
			"checkout": &graphql.Field{
				Type: graphql.NewNonNull(orderType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					o, err := res.Orders.Checkout(p.Context, session.FromContext(p.Context))
					if err != nil {
						return nil, classify(err)
					}
					return o, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
	if err != nil {
		return graphql.Schema{}, errors.Wrap(err, "build schema")
	}
	return schema, nil
}

func nonNullList(t graphql.Type) graphql.Output {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

func productField(t graphql.Output, get func(catalog.Product) any) *graphql.Field {
	return sourceField(t, get)
}

func lineField(t graphql.Output, get func(cart.Line) any) *graphql.Field {
	return sourceField(t, get)
}

func cartField(t graphql.Output, get func(cart.Cart) any) *graphql.Field {
	return sourceField(t, get)
}

func orderField(t graphql.Output, get func(order.Order) any) *graphql.Field {
	return sourceField(t, get)
}

func sourceField[T any](t graphql.Output, get func(T) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			src, ok := p.Source.(T)
			if !ok {
				return nil, errors.Errorf("unexpected source %T", p.Source)
			}
			return get(src), nil
		},
	}
}
