package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"shopclient/internal/api"
	"shopclient/internal/config"
	"shopclient/internal/credentials"
	"shopclient/internal/modules/cart"
	"shopclient/internal/modules/catalog"
	"shopclient/internal/modules/category"
	"shopclient/internal/modules/order"
	"shopclient/internal/modules/session"
)

const usage = `usage: shopctl <command> [args]

  register <email> <username> <password>
  login <username> <password>
  logout
  me
  catalog
  tree
  cart
  add <product-id> [quantity]
  quantity <item-id> <quantity>
  order <shipping-address>
  orders
`

type app struct {
	session    *session.Store
	categories *category.Store
	products   *catalog.Store
	cart       *cart.Store
	orders     *order.Store
}

func main() {
	// .env is optional for the CLI; the environment alone is enough.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	creds := credentials.NewFile(cfg.TokenPath)
	client := api.NewClient(cfg.BaseURL, creds,
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))

	a := &app{
		session:    session.NewStore(client, creds),
		categories: category.NewStore(client),
		products:   catalog.NewStore(client),
		cart:       cart.NewStore(client),
		orders:     order.NewStore(client),
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := a.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		if len(args) != 3 {
			return fmt.Errorf("register needs <email> <username> <password>")
		}
		if err := a.session.Register(ctx, args[0], args[1], args[2]); err != nil {
			return fmt.Errorf("%s", a.session.Err())
		}
		fmt.Println("registered; you can now log in")
		return nil

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login needs <username> <password>")
		}
		if err := a.session.Login(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("%s", a.session.Err())
		}
		u := a.session.User()
		fmt.Printf("signed in as %s <%s>\n", u.Username, u.Email)
		if exp, ok := a.session.TokenExpiry(); ok {
			fmt.Printf("token valid until %s\n", exp.Format("2006-01-02 15:04:05"))
		}
		return nil

	case "logout":
		a.session.Logout()
		fmt.Println("signed out")
		return nil

	case "me":
		if err := a.session.FetchCurrentUser(ctx); err != nil {
			return fmt.Errorf("%s", a.session.Err())
		}
		u := a.session.User()
		if u == nil {
			fmt.Println("not signed in")
			return nil
		}
		fmt.Printf("%s <%s> admin=%v\n", u.Username, u.Email, u.IsAdmin)
		return nil

	case "catalog":
		if err := a.products.FetchAll(ctx); err != nil {
			return fmt.Errorf("%s", a.products.Err())
		}
		for _, p := range a.products.Products() {
			fmt.Printf("#%d %s — %.2f (stock %d)\n", p.ID, p.Name, p.Price, p.Stock)
		}
		return nil

	case "tree":
		if err := a.categories.FetchAll(ctx); err != nil {
			return fmt.Errorf("%s", a.categories.Err())
		}
		printTree(a.categories.Tree(), 0)
		return nil

	case "cart":
		if err := a.cart.FetchAll(ctx); err != nil {
			return fmt.Errorf("%s", a.cart.Err())
		}
		for _, item := range a.cart.Items() {
			fmt.Printf("#%d %s × %d = %.2f\n",
				item.ID, item.Product.Name, item.Quantity,
				item.Product.Price*float64(item.Quantity))
		}
		fmt.Printf("total: %.2f\n", a.cart.Total())
		return nil

	case "add":
		if len(args) < 1 {
			return fmt.Errorf("add needs <product-id> [quantity]")
		}
		productID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad product id %q", args[0])
		}
		quantity := 1
		if len(args) > 1 {
			if quantity, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("bad quantity %q", args[1])
			}
		}
		if err := a.cart.Add(ctx, productID, quantity); err != nil {
			return fmt.Errorf("%s", a.cart.Err())
		}
		fmt.Printf("cart total: %.2f\n", a.cart.Total())
		return nil

	case "quantity":
		if len(args) != 2 {
			return fmt.Errorf("quantity needs <item-id> <quantity>")
		}
		itemID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad item id %q", args[0])
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad quantity %q", args[1])
		}
		if err := a.cart.UpdateQuantity(ctx, itemID, quantity); err != nil {
			return fmt.Errorf("%s", a.cart.Err())
		}
		fmt.Printf("cart total: %.2f\n", a.cart.Total())
		return nil

	case "order":
		if len(args) < 1 {
			return fmt.Errorf("order needs <shipping-address>")
		}
		if err := a.orders.Create(ctx, strings.Join(args, " ")); err != nil {
			return fmt.Errorf("%s", a.orders.Err())
		}
		fmt.Println("order placed")
		return nil

	case "orders":
		if err := a.orders.FetchAll(ctx); err != nil {
			return fmt.Errorf("%s", a.orders.Err())
		}
		for _, o := range a.orders.Orders() {
			fmt.Printf("#%d %s %.2f → %s\n", o.ID, o.Status, o.TotalAmount, o.ShippingAddress)
		}
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printTree(nodes []*category.Node, depth int) {
	for _, n := range nodes {
		fmt.Printf("%s%s (#%d)\n", strings.Repeat("  ", depth), n.Name, n.ID)
		printTree(n.Children, depth+1)
	}
}
