package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ceylonhub/storefront/internal/catalog"
	apperrors "github.com/ceylonhub/storefront/internal/errors"
	"github.com/ceylonhub/storefront/internal/models"
	"github.com/ceylonhub/storefront/internal/session"
	"github.com/ceylonhub/storefront/internal/utils"
)

func (a *app) requireLogin() error {
	if a.session.Status() != session.StatusAuthenticated {
		return apperrors.UnauthorizedError("Please log in first")
	}

	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	user := fs.String("user", "", "email or phone")
	password := fs.String("password", "", "account password")

	if err := fs.Parse(args); err != nil {
		return err
	}

	loggedIn, err := a.session.Login(ctx, *user, *password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", loggedIn.Name, loggedIn.Email)

	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "account password")

	if err := fs.Parse(args); err != nil {
		return err
	}

	req := models.RegisterRequest{Name: *name, Email: *email, Phone: *phone, Password: *password}

	registered, err := a.session.Register(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s! You are now logged in.\n", registered.Name)

	return nil
}

func (a *app) cmdLogout() error {
	a.session.Logout()
	fmt.Println("Logged out.")

	return nil
}

func (a *app) cmdWhoami() error {

	user := a.session.CurrentUser()
	if user == nil {
		fmt.Println("Not logged in.")

		return nil
	}

	fmt.Printf("%s <%s> role=%s\n", user.Name, user.Email, user.Role)

	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {

	if err := a.requireLogin(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone number")
	street := fs.String("street", "", "street address")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state or province")
	zip := fs.String("zip", "", "zip or postal code")
	country := fs.String("country", "", "country")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var req models.UpdateProfileRequest

	if *name != "" {
		req.Name = name
	}

	if *phone != "" {
		req.Phone = phone
	}

	if *street != "" || *city != "" || *state != "" || *zip != "" || *country != "" {
		req.Address = &models.Address{Street: *street, City: *city, State: *state, ZipCode: *zip, Country: *country}
	}

	if req.Name == nil && req.Phone == nil && req.Address == nil {
		return apperrors.ValidationError("Nothing to update")
	}

	updated, err := a.session.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Profile updated: %s <%s>\n", updated.Name, updated.Email)

	return nil
}

func (a *app) cmdProducts(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	search := fs.String("search", "", "search term")
	category := fs.String("category", "", "category filter")
	page := fs.Int("page", 0, "page number")

	if err := fs.Parse(args); err != nil {
		return err
	}

	products, err := a.catalog.List(ctx, catalog.ListOptions{Search: *search, Category: *category, Page: *page})
	if err != nil {
		return err
	}

	if len(products) == 0 {
		fmt.Println("No products found.")

		return nil
	}

	for _, p := range products {
		fmt.Printf("%-26s %10s  %s\n", p.ID, utils.FormatAmount(p.Price), p.Name)
	}

	return nil
}

func (a *app) cmdProduct(ctx context.Context, args []string) error {

	if len(args) != 1 {
		return apperrors.ValidationError("Usage: product <id>")
	}

	product, err := a.catalog.Get(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n%s\n", product.Name, utils.FormatAmount(product.Price))

	if product.Rating.Count > 0 {
		fmt.Printf("Rating: %.1f (%d reviews)\n", product.Rating.Average, product.Rating.Count)
	}

	if product.Description != "" {
		fmt.Println(product.Description)
	}

	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {

	action := "show"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "show":
	case "add":
		if len(args) != 2 {
			return apperrors.ValidationError("Usage: cart add <product-id>")
		}

		product, err := a.catalog.Get(ctx, args[1])
		if err != nil {
			return err
		}

		a.cart.AddItem(product.CartItem())
	case "rm":
		if len(args) != 2 {
			return apperrors.ValidationError("Usage: cart rm <product-id>")
		}

		a.cart.RemoveItem(args[1])
	case "qty":
		if len(args) != 3 {
			return apperrors.ValidationError("Usage: cart qty <product-id> <quantity>")
		}

		var quantity int
		if _, err := fmt.Sscanf(args[2], "%d", &quantity); err != nil {
			return apperrors.ValidationError("Quantity must be a number")
		}

		a.cart.UpdateQuantity(args[1], quantity)
	case "clear":
		a.cart.Clear()
	default:
		return apperrors.ValidationError(fmt.Sprintf("Unknown cart action %q", action))
	}

	a.printCart()

	return nil
}

func (a *app) printCart() {

	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty.")

		return
	}

	for _, item := range items {
		fmt.Printf("%-26s x%-3d %10s  %s\n", item.ProductID, item.Quantity, utils.FormatAmount(item.Subtotal()), item.Name)
	}

	fmt.Printf("%d item(s), total %s\n", a.cart.ItemCount(), utils.FormatAmount(a.cart.Total()))
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {

	if err := a.requireLogin(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	method := fs.String("method", "card", "payment method: card or bank_transfer")
	street := fs.String("street", "", "street address")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state or province")
	zip := fs.String("zip", "", "zip or postal code")
	country := fs.String("country", "", "country")
	buyNow := fs.String("buy-now", "", "checkout a single product, bypassing the cart")
	slip := fs.String("slip", "", "payment slip file to upload (bank transfer)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *buyNow != "" {
		product, err := a.catalog.Get(ctx, *buyNow)
		if err != nil {
			return err
		}

		a.checkout.SetBuyNow(product.CartItem())
	}

	info := models.CustomerInfo{Street: *street, City: *city, State: *state, ZipCode: *zip, Country: *country}

	order, err := a.checkout.Submit(ctx, info, models.PaymentMethod(*method))
	if err != nil {
		return err
	}

	fmt.Printf("Order %s created.\n", order.ID)

	if models.PaymentMethod(*method) == models.PaymentMethodCard {
		fmt.Println("Payment initiated; track it under 'orders'.")

		return nil
	}

	fmt.Println("Transfer the total to the account from your order confirmation, then upload the slip.")

	if *slip == "" {
		fmt.Printf("Upload later with: storefront slip -order %s -file <path>\n", order.ID)

		return nil
	}

	url, err := a.uploadSlip(ctx, *slip, func(ctx context.Context, f *os.File, size int64) (string, error) {
		return a.checkout.SubmitPaymentSlip(ctx, f, size, printProgress)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Payment slip uploaded: %s\n", url)

	return nil
}

func (a *app) cmdOrders(ctx context.Context) error {

	if err := a.requireLogin(); err != nil {
		return err
	}

	history, err := a.orders.History(ctx)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Println("No orders yet.")

		return nil
	}

	for _, order := range history {
		fmt.Printf("%-26s %10s  %-12s payment=%s  %s\n",
			order.ID, utils.FormatAmount(order.Total), order.Status, order.PaymentStatus,
			order.CreatedAt.Format("2006-01-02"))
	}

	return nil
}

func (a *app) cmdSlip(ctx context.Context, args []string) error {

	if err := a.requireLogin(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("slip", flag.ContinueOnError)
	orderID := fs.String("order", "", "order id")
	file := fs.String("file", "", "payment slip file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *orderID == "" || *file == "" {
		return apperrors.ValidationError("Both -order and -file are required")
	}

	url, err := a.uploadSlip(ctx, *file, func(ctx context.Context, f *os.File, size int64) (string, error) {
		return a.orders.SubmitSlip(ctx, *orderID, f, size, printProgress)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Payment slip uploaded: %s\n", url)

	return nil
}

func (a *app) uploadSlip(ctx context.Context, path string, submit func(context.Context, *os.File, int64) (string, error)) (string, error) {

	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.ValidationError("Cannot open payment slip file").WithError(err)
	}

	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", apperrors.InternalError("Cannot stat payment slip file").WithError(err)
	}

	url, err := submit(ctx, f, info.Size())

	fmt.Fprintln(os.Stderr)

	return url, err
}

func printProgress(done, total int64) {
	if total > 0 {
		fmt.Fprintf(os.Stderr, "\ruploading... %d%%", done*100/total)
	} else {
		fmt.Fprintf(os.Stderr, "\ruploading... %d bytes", done)
	}
}
