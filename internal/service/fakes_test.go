package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
)

// fakeStore is an in-memory stand-in for the sqlx store, covering the
// narrow interfaces the services consume
type fakeStore struct {
	users        map[int64]*models.User
	clients      map[int64]*models.Client
	products     map[int64]*models.Product
	items        map[int64]*models.InventoryItem
	cart         map[int64][]models.CartLine
	receipts     map[int64]*models.Receipt
	receiptItems map[int64][]models.ReceiptItem
	sales        map[int64]*models.Sale

	nextID        int64
	checkoutCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[int64]*models.User{},
		clients:      map[int64]*models.Client{},
		products:     map[int64]*models.Product{},
		items:        map[int64]*models.InventoryItem{},
		cart:         map[int64][]models.CartLine{},
		receipts:     map[int64]*models.Receipt{},
		receiptItems: map[int64][]models.ReceiptItem{},
		sales:        map[int64]*models.Sale{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) Checkout(ctx context.Context, userID int64, clientID *int64, receiptNumber string) (*models.Receipt, []models.ReceiptItem, error) {
	f.checkoutCalls++

	lines := f.cart[userID]
	if len(lines) == 0 {
		return nil, nil, store.ErrEmptyCart
	}

	receipt := &models.Receipt{
		ID:            f.id(),
		ReceiptNumber: receiptNumber,
		UserID:        userID,
		ClientID:      clientID,
		CreatedAt:     time.Now(),
	}

	items := make([]models.ReceiptItem, 0, len(lines))
	for _, line := range lines {
		lineTotal := line.UnitPrice * int64(line.Quantity)
		items = append(items, models.ReceiptItem{
			ID:        f.id(),
			ReceiptID: receipt.ID,
			ProductID: line.ProductID,
			Name:      line.ProductName,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		receipt.TotalAmount += lineTotal
	}

	f.receipts[receipt.ID] = receipt
	f.receiptItems[receipt.ID] = items
	delete(f.cart, userID)

	return receipt, items, nil
}

func (f *fakeStore) GetReceiptByNumber(ctx context.Context, number string) (*models.Receipt, error) {
	for _, r := range f.receipts {
		if r.ReceiptNumber == number {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetReceiptByID(ctx context.Context, id int64) (*models.Receipt, error) {
	if r, ok := f.receipts[id]; ok {
		return r, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetReceiptItems(ctx context.Context, receiptID int64) ([]models.ReceiptItem, error) {
	return f.receiptItems[receiptID], nil
}

func (f *fakeStore) GetReceiptsByUser(ctx context.Context, userID int64) ([]models.Receipt, error) {
	var out []models.Receipt
	for _, r := range f.receipts {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return store.ErrUsernameTaken
		}
	}
	user.ID = f.id()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	if c, ok := f.clients[id]; ok {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateProduct(ctx context.Context, p *models.Product) error {
	for _, existing := range f.products {
		if existing.Barcode == p.Barcode {
			return store.ErrDuplicateBarcode
		}
	}
	p.ID = f.id()
	p.CreatedAt = time.Now()
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	for _, p := range f.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	existing, ok := f.products[p.ID]
	if !ok || existing.OwnerID != p.OwnerID {
		return store.ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	lines := f.cart[item.UserID]
	for i := range lines {
		if lines[i].ProductID == item.ProductID {
			lines[i].Quantity += item.Quantity
			item.Quantity = lines[i].Quantity
			return nil
		}
	}
	product := f.products[item.ProductID]
	item.ID = f.id()
	f.cart[item.UserID] = append(lines, models.CartLine{
		CartItemID:  item.ID,
		ProductID:   item.ProductID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    item.Quantity,
	})
	return nil
}

func (f *fakeStore) GetCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, line := range f.cart[userID] {
		out = append(out, models.CartItem{
			ID:        line.CartItemID,
			UserID:    userID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return out, nil
}

func (f *fakeStore) GetCartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	return f.cart[userID], nil
}

func (f *fakeStore) DeleteCartItem(ctx context.Context, userID, cartItemID int64) error {
	lines := f.cart[userID]
	for i, line := range lines {
		if line.CartItemID == cartItemID {
			f.cart[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) MarkUserPaid(ctx context.Context, userID int64) error {
	u, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	now := time.Now()
	u.HasPaid = true
	u.PaidAt = &now
	return nil
}

func (f *fakeStore) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	item.ID = f.id()
	item.CreatedAt = time.Now()
	f.items[item.ID] = item
	return nil
}

func (f *fakeStore) GetInventoryItemByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	if item, ok := f.items[id]; ok {
		return item, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetInventoryItems(ctx context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeStore) GetInventoryItemsByOwner(ctx context.Context, ownerID int64) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	existing, ok := f.items[item.ID]
	if !ok || existing.OwnerID != item.OwnerID {
		return store.ErrNotFound
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeStore) DeleteInventoryItem(ctx context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStore) CountInventoryItemsByOwner(ctx context.Context, ownerID int64) (int, error) {
	items, _ := f.GetInventoryItemsByOwner(ctx, ownerID)
	return len(items), nil
}

func (f *fakeStore) StockValueByOwner(ctx context.Context, ownerID int64) (int64, error) {
	items, _ := f.GetInventoryItemsByOwner(ctx, ownerID)
	var value int64
	for _, item := range items {
		value += item.Price * int64(item.Quantity)
	}
	return value, nil
}

func (f *fakeStore) GetRecentSalesByOwner(ctx context.Context, ownerID int64, limit int) ([]models.Sale, error) {
	sales, _ := f.GetSalesByOwner(ctx, ownerID)
	if len(sales) > limit {
		sales = sales[:limit]
	}
	return sales, nil
}

func (f *fakeStore) CountReceiptsByUser(ctx context.Context, userID int64) (int, error) {
	receipts, _ := f.GetReceiptsByUser(ctx, userID)
	return len(receipts), nil
}

func (f *fakeStore) CreateSale(ctx context.Context, sale *models.Sale) error {
	sale.ID = f.id()
	sale.SoldAt = time.Now()
	f.sales[sale.ID] = sale
	return nil
}

func (f *fakeStore) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	if sale, ok := f.sales[id]; ok {
		return sale, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetSalesByOwner(ctx context.Context, ownerID int64) ([]models.Sale, error) {
	var out []models.Sale
	for _, sale := range f.sales {
		if sale.OwnerID == ownerID {
			out = append(out, *sale)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteSale(ctx context.Context, id int64) error {
	if _, ok := f.sales[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.sales, id)
	return nil
}

func (f *fakeStore) CreateClient(ctx context.Context, client *models.Client) error {
	client.ID = f.id()
	client.CreatedAt = time.Now()
	f.clients[client.ID] = client
	return nil
}

func (f *fakeStore) GetClientsByOwner(ctx context.Context, ownerID int64) ([]models.Client, error) {
	var out []models.Client
	for _, c := range f.clients {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

// fakeGuard is an in-memory checkout guard
type fakeGuard struct {
	locked map[int64]string
	idem   map[string]int64
	busy   bool
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{
		locked: map[int64]string{},
		idem:   map[string]int64{},
	}
}

func (g *fakeGuard) AcquireCheckoutLock(ctx context.Context, userID int64, token string, ttl time.Duration) (bool, error) {
	if g.busy {
		return false, nil
	}
	if _, held := g.locked[userID]; held {
		return false, nil
	}
	g.locked[userID] = token
	return true, nil
}

func (g *fakeGuard) ReleaseCheckoutLock(ctx context.Context, userID int64, token string) error {
	if g.locked[userID] == token {
		delete(g.locked, userID)
	}
	return nil
}

func (g *fakeGuard) SetIdempotencyKey(ctx context.Context, key string, receiptID int64, ttl time.Duration) error {
	g.idem[key] = receiptID
	return nil
}

func (g *fakeGuard) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	return g.idem[key], nil
}

// fakePublisher records published events
type fakePublisher struct {
	receiptEvents []*models.ReceiptCreatedEvent
	paymentEvents []*models.PaymentConfirmedEvent
	saleEvents    []*models.SaleRecordedEvent
}

func (p *fakePublisher) PublishReceiptCreated(ctx context.Context, event *models.ReceiptCreatedEvent) error {
	p.receiptEvents = append(p.receiptEvents, event)
	return nil
}

func (p *fakePublisher) PublishPaymentConfirmed(ctx context.Context, event *models.PaymentConfirmedEvent) error {
	p.paymentEvents = append(p.paymentEvents, event)
	return nil
}

func (p *fakePublisher) PublishSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error {
	p.saleEvents = append(p.saleEvents, event)
	return nil
}
