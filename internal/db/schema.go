package db

import (
	"context"
	"log"

	"github.com/pkg/errors"
)

// EnsureSchema creates every table the service uses. Each step is idempotent.
// Tables that carry the uniqueness and versioning rules must be in place, so
// a failure there is returned. The remaining tables only log.
func EnsureSchema(ctx context.Context, q Querier) error {
	required := []func(context.Context, Querier) error{
		ensureUsersTable,
		ensurePreferencesTable,
		ensurePlantsTable,
		ensureSwipesTable,
		ensureConnectionsTable,
		ensureMatchesTable,
		ensureTradeProposalsTable,
	}
	for _, ensure := range required {
		if err := ensure(ctx, q); err != nil {
			return err
		}
	}

	optional := []func(context.Context, Querier) error{
		ensureMessagesTable,
		ensureNotificationsTable,
		ensurePushSubscriptionsTable,
		ensureReportsTable,
	}
	for _, ensure := range optional {
		if err := ensure(ctx, q); err != nil {
			log.Printf("[db] %v", err)
		}
	}
	return nil
}

func exec(ctx context.Context, q Querier, name, ddl string) error {
	if _, err := q.Exec(ctx, ddl); err != nil {
		return errors.Wrapf(err, "failed to ensure %s", name)
	}
	log.Printf("[db] %s ensured", name)
	return nil
}

func ensureUsersTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "users", `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user','admin')),
            bio TEXT NULL,
            profile_picture_url TEXT NULL,
            location_lat DOUBLE PRECISION NULL,
            location_lon DOUBLE PRECISION NULL,
            expo_push_token TEXT NULL,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_users_location ON users(location_lat, location_lon);
    `)
}

func ensurePreferencesTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "user_preferences", `
        CREATE TABLE IF NOT EXISTS user_preferences (
            user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            search_radius_km INTEGER NOT NULL DEFAULT 0,
            plant_stages TEXT[] NOT NULL DEFAULT '{}',
            plant_categories TEXT[] NOT NULL DEFAULT '{}',
            watering_needs TEXT[] NOT NULL DEFAULT '{}',
            light_requirements TEXT[] NOT NULL DEFAULT '{}',
            sizes TEXT[] NOT NULL DEFAULT '{}',
            indoor_outdoors TEXT[] NOT NULL DEFAULT '{}',
            propagation_eases TEXT[] NOT NULL DEFAULT '{}',
            pet_friendlies TEXT[] NOT NULL DEFAULT '{}',
            extras TEXT[] NOT NULL DEFAULT '{}',
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
    `)
}

func ensurePlantsTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "plants", `
        CREATE TABLE IF NOT EXISTS plants (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            species_name TEXT NOT NULL,
            description TEXT NULL,
            plant_stage TEXT NOT NULL,
            plant_category TEXT NULL,
            watering_need TEXT NULL,
            light_requirement TEXT NULL,
            size TEXT NULL,
            indoor_outdoor TEXT NULL,
            propagation_ease TEXT NULL,
            pet_friendly TEXT NULL,
            extras TEXT[] NOT NULL DEFAULT '{}',
            image_url TEXT NULL,
            is_traded BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_plants_user ON plants(user_id);
        CREATE INDEX IF NOT EXISTS idx_plants_tradable ON plants(user_id) WHERE is_traded = FALSE;
    `)
}

func ensureSwipesTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "swipes", `
        CREATE TABLE IF NOT EXISTS swipes (
            id UUID PRIMARY KEY,
            swiper_plant_id UUID NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
            swiped_plant_id UUID NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
            is_like BOOLEAN NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            CONSTRAINT uq_swipes_pair UNIQUE (swiper_plant_id, swiped_plant_id)
        );
        CREATE INDEX IF NOT EXISTS idx_swipes_swiped ON swipes(swiped_plant_id);
    `)
}

func ensureConnectionsTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "connections", `
        CREATE TABLE IF NOT EXISTS connections (
            id UUID PRIMARY KEY,
            user_id1 UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            user_id2 UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            CHECK (user_id1 <> user_id2)
        );
        CREATE UNIQUE INDEX IF NOT EXISTS uq_connections_pair
            ON connections (LEAST(user_id1, user_id2), GREATEST(user_id1, user_id2));
    `)
}

func ensureMatchesTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "matches", `
        CREATE TABLE IF NOT EXISTS matches (
            id UUID PRIMARY KEY,
            plant_id1 UUID NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
            plant_id2 UUID NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
            connection_id UUID NOT NULL REFERENCES connections(id) ON DELETE CASCADE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE UNIQUE INDEX IF NOT EXISTS uq_matches_pair
            ON matches (LEAST(plant_id1, plant_id2), GREATEST(plant_id1, plant_id2));
        CREATE INDEX IF NOT EXISTS idx_matches_connection ON matches(connection_id);
    `)
}

func ensureTradeProposalsTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "trade_proposals", `
        CREATE TABLE IF NOT EXISTS trade_proposals (
            id UUID PRIMARY KEY,
            connection_id UUID NOT NULL REFERENCES connections(id) ON DELETE CASCADE,
            proposal_owner_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            status TEXT NOT NULL DEFAULT 'Pending'
                CHECK (status IN ('Pending','Accepted','Rejected','Completed')),
            owner_completion_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
            responder_completion_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
            version INTEGER NOT NULL DEFAULT 1,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            accepted_at TIMESTAMP WITH TIME ZONE NULL,
            declined_at TIMESTAMP WITH TIME ZONE NULL,
            completed_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_trade_proposals_connection ON trade_proposals(connection_id, created_at);

        CREATE TABLE IF NOT EXISTS trade_proposal_plants (
            proposal_id UUID NOT NULL REFERENCES trade_proposals(id) ON DELETE CASCADE,
            plant_id UUID NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
            side SMALLINT NOT NULL CHECK (side IN (1, 2)),
            PRIMARY KEY (proposal_id, plant_id)
        );
    `)
}

func ensureMessagesTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "messages", `
        CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY,
            connection_id UUID NOT NULL REFERENCES connections(id) ON DELETE CASCADE,
            sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            recipient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_messages_connection_created ON messages(connection_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_messages_recipient_unread ON messages(recipient_id) WHERE read_at IS NULL;
    `)
}

func ensureNotificationsTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "notifications", `
        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type TEXT NOT NULL,
            title TEXT NOT NULL,
            body TEXT,
            reference UUID NULL,
            metadata JSONB NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id) WHERE read_at IS NULL;
    `)
}

func ensurePushSubscriptionsTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "push_subscriptions", `
        CREATE TABLE IF NOT EXISTS push_subscriptions (
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            endpoint TEXT NOT NULL,
            p256dh TEXT NOT NULL,
            auth TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (user_id, endpoint)
        );
    `)
}

func ensureReportsTable(ctx context.Context, q Querier) error {
	return exec(ctx, q, "reports", `
        CREATE TABLE IF NOT EXISTS reports (
            id UUID PRIMARY KEY,
            reporter_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            reported_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            reason TEXT NOT NULL,
            comments TEXT NULL,
            is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
            resolved_by UUID NULL REFERENCES users(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            resolved_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_reports_unresolved ON reports(created_at) WHERE is_resolved = FALSE;
    `)
}
