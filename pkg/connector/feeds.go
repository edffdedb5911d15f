package connector

// Feeds bundles one Feed per state stream and implements every Subscribe
// method of Connector. Implementations embed it and publish into the feeds.
type Feeds struct {
	Account    *Feed[AccountSnapshot]
	Network    *Feed[NetworkSnapshot]
	State      *Feed[AppState]
	Theme      *Feed[ThemeSnapshot]
	Events     *Feed[[]EventRecord]
	WalletInfo *Feed[WalletInfo]
	Providers  *Feed[Providers]
}

// NewFeeds returns a bundle of empty feeds.
func NewFeeds() *Feeds {
	return &Feeds{
		Account:    NewFeed[AccountSnapshot](),
		Network:    NewFeed[NetworkSnapshot](),
		State:      NewFeed[AppState](),
		Theme:      NewFeed[ThemeSnapshot](),
		Events:     NewFeed[[]EventRecord](),
		WalletInfo: NewFeed[WalletInfo](),
		Providers:  NewFeed[Providers](),
	}
}

func (f *Feeds) SubscribeAccount(fn func(AccountSnapshot)) Unsubscribe {
	return f.Account.Subscribe(fn)
}

func (f *Feeds) SubscribeNetwork(fn func(NetworkSnapshot)) Unsubscribe {
	return f.Network.Subscribe(fn)
}

func (f *Feeds) SubscribeState(fn func(AppState)) Unsubscribe {
	return f.State.Subscribe(fn)
}

func (f *Feeds) SubscribeTheme(fn func(ThemeSnapshot)) Unsubscribe {
	return f.Theme.Subscribe(fn)
}

func (f *Feeds) SubscribeEvents(fn func([]EventRecord)) Unsubscribe {
	return f.Events.Subscribe(fn)
}

func (f *Feeds) SubscribeWalletInfo(fn func(WalletInfo)) Unsubscribe {
	return f.WalletInfo.Subscribe(fn)
}

func (f *Feeds) SubscribeProviders(fn func(Providers)) Unsubscribe {
	return f.Providers.Subscribe(fn)
}

// Live returns the total number of live subscriptions across all feeds.
func (f *Feeds) Live() int {
	return f.Account.Len() + f.Network.Len() + f.State.Len() + f.Theme.Len() +
		f.Events.Len() + f.WalletInfo.Len() + f.Providers.Len()
}
