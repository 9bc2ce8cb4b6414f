package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Core Player State

CREATE TABLE IF NOT EXISTS users (
    user_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(50) UNIQUE NOT NULL,
    points_available INTEGER NOT NULL DEFAULT 0 CHECK (points_available >= 0),
    points_total INTEGER NOT NULL DEFAULT 0 CHECK (points_total >= 0),
    points_spent INTEGER NOT NULL DEFAULT 0 CHECK (points_spent >= 0),
    level INTEGER NOT NULL DEFAULT 1,
    captures INTEGER NOT NULL DEFAULT 0,
    rewards_granted INTEGER NOT NULL DEFAULT 0,
    purchases INTEGER NOT NULL DEFAULT 0,
    last_active TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Marketplace Rewards
-- stock_available + stock_reserved <= stock_quantity when finite (-1 = unlimited)

CREATE TABLE IF NOT EXISTS rewards (
    reward_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(120) NOT NULL,
    points_cost INTEGER NOT NULL CHECK (points_cost >= 0),
    stock_quantity INTEGER NOT NULL DEFAULT -1,
    stock_available INTEGER NOT NULL DEFAULT 0 CHECK (stock_available >= 0),
    stock_reserved INTEGER NOT NULL DEFAULT 0 CHECK (stock_reserved >= 0),
    max_per_user INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Geofenced Prizes

CREATE TABLE IF NOT EXISTS prizes (
    prize_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(120) NOT NULL,
    lat DOUBLE PRECISION,
    lng DOUBLE PRECISION,
    capture_radius_m DOUBLE PRECISION NOT NULL DEFAULT 50,
    quantity INTEGER NOT NULL DEFAULT -1,
    policy VARCHAR(10) NOT NULL CHECK (policy IN ('points', 'reward', 'hybrid')),
    points_amount INTEGER NOT NULL DEFAULT 0,
    bonus_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    reward_id UUID REFERENCES rewards(reward_id),
    reward_probability DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (reward_probability BETWEEN 0 AND 1),
    status VARCHAR(10) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Claims: immutable record of successful captures

CREATE TABLE IF NOT EXISTS claims (
    claim_id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(user_id),
    prize_id UUID NOT NULL REFERENCES prizes(prize_id),
    lat DOUBLE PRECISION NOT NULL,
    lng DOUBLE PRECISION NOT NULL,
    distance_m DOUBLE PRECISION NOT NULL,
    validation_score DOUBLE PRECISION NOT NULL,
    points_awarded INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(10) NOT NULL DEFAULT 'verified' CHECK (status IN ('verified', 'rejected')),
    redemption_id UUID,
    fulfillment_failed BOOLEAN NOT NULL DEFAULT FALSE,
    idempotency_key TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT claims_idempotency_key_unique UNIQUE (idempotency_key)
);

CREATE INDEX IF NOT EXISTS idx_claims_user ON claims(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_claims_prize ON claims(prize_id);

-- Redemptions: points spent or capture-granted rewards

CREATE TABLE IF NOT EXISTS redemptions (
    redemption_id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(user_id),
    reward_id UUID NOT NULL REFERENCES rewards(reward_id),
    points_spent INTEGER NOT NULL DEFAULT 0,
    quantity INTEGER NOT NULL DEFAULT 1,
    status VARCHAR(10) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'fulfilled', 'cancelled')),
    idempotency_key TEXT NOT NULL,
    code TEXT,
    source VARCHAR(10) NOT NULL CHECK (source IN ('purchase', 'capture')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ,
    CONSTRAINT redemptions_idempotency_key_unique UNIQUE (idempotency_key)
);

CREATE INDEX IF NOT EXISTS idx_redemptions_user ON redemptions(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_redemptions_pending_expiry ON redemptions(expires_at) WHERE status = 'pending';

-- Stock reservation journal for the two-phase hold protocol

CREATE TABLE IF NOT EXISTS stock_reservations (
    reservation_id UUID PRIMARY KEY,
    reward_id UUID NOT NULL REFERENCES rewards(reward_id),
    qty INTEGER NOT NULL CHECK (qty > 0),
    state VARCHAR(10) NOT NULL DEFAULT 'held' CHECK (state IN ('held', 'confirmed', 'released')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_stock_reservations_held ON stock_reservations(created_at) WHERE state = 'held';
`
