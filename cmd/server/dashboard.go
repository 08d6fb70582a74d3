package main

import (
	"net/http"
)

func dashboardHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Floodgate Dashboard</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: linear-gradient(135deg, #0f2027 0%, #2c5364 100%);
            min-height: 100vh;
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
        }
        .header {
            text-align: center;
            color: white;
            margin-bottom: 30px;
        }
        .header h1 {
            font-size: 2.5em;
            margin-bottom: 10px;
        }
        .header p {
            opacity: 0.9;
            font-size: 1.1em;
        }
        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }
        .stat-card {
            background: white;
            border-radius: 12px;
            padding: 25px;
            box-shadow: 0 4px 6px rgba(0,0,0,0.1);
            transition: transform 0.2s;
        }
        .stat-card:hover {
            transform: translateY(-5px);
        }
        .stat-label {
            color: #666;
            font-size: 0.9em;
            text-transform: uppercase;
            letter-spacing: 1px;
            margin-bottom: 10px;
        }
        .stat-value {
            font-size: 2.5em;
            font-weight: bold;
            color: #333;
        }
        .stat-value.success { color: #10b981; }
        .stat-value.danger { color: #ef4444; }
        .stat-value.info { color: #3b82f6; }
        .stat-value.warning { color: #f59e0b; }
        .stat-sublabel {
            margin-top: 8px;
            font-size: 0.9em;
            color: #666;
            font-weight: normal;
        }
        .table-card {
            background: white;
            border-radius: 12px;
            padding: 25px;
            box-shadow: 0 4px 6px rgba(0,0,0,0.1);
        }
        .table-card h2 {
            margin-bottom: 20px;
            color: #333;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th {
            text-align: left;
            padding: 12px;
            background: #f3f4f6;
            color: #666;
            font-weight: 600;
            text-transform: uppercase;
            font-size: 0.85em;
            letter-spacing: 0.5px;
        }
        td {
            padding: 12px;
            border-bottom: 1px solid #e5e7eb;
        }
        tr:last-child td {
            border-bottom: none;
        }
        .badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.85em;
            font-weight: 600;
        }
        .badge.success {
            background: #d1fae5;
            color: #065f46;
        }
        .badge.danger {
            background: #fee2e2;
            color: #991b1b;
        }
        .refresh-indicator {
            position: fixed;
            top: 20px;
            right: 20px;
            background: white;
            padding: 10px 20px;
            border-radius: 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            font-size: 0.9em;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="refresh-indicator">
        Auto-refresh: <span id="countdown">2</span>s
    </div>

    <div class="container">
        <div class="header">
            <h1>🌊 Floodgate</h1>
            <p>Real-time Admission Control Dashboard</p>
        </div>

        <div class="stats-grid">
            <div class="stat-card">
                <div class="stat-label">Total Checks</div>
                <div class="stat-value info" id="totalChecks">0</div>
            </div>
            <div class="stat-card">
                <div class="stat-label">Allowed</div>
                <div class="stat-value success" id="allowedChecks">0</div>
                <div class="stat-sublabel" id="allowRate">0% allow rate</div>
            </div>
            <div class="stat-card">
                <div class="stat-label">Denied</div>
                <div class="stat-value danger" id="deniedChecks">0</div>
                <div class="stat-sublabel" id="denyRate">0% deny rate</div>
            </div>
            <div class="stat-card">
                <div class="stat-label">Unique Users</div>
                <div class="stat-value warning" id="uniqueUsers">0</div>
            </div>
        </div>

        <div class="table-card">
            <h2>Noisiest Users</h2>
            <table>
                <thead>
                    <tr>
                        <th>User ID</th>
                        <th>Total</th>
                        <th>Allowed</th>
                        <th>Denied</th>
                        <th>Deny Rate</th>
                        <th>Last Seen</th>
                    </tr>
                </thead>
                <tbody id="topUsersTable">
                    <tr>
                        <td colspan="6" style="text-align: center; color: #999;">
                            Loading...
                        </td>
                    </tr>
                </tbody>
            </table>
        </div>
    </div>

    <script>
        let countdown = 2;
        let countdownInterval;

        async function fetchMetrics() {
            try {
                const response = await fetch('/metrics');
                const data = await response.json();
                updateDashboard(data);
            } catch (error) {
                console.error('Failed to fetch metrics:', error);
            }
        }

        function updateDashboard(data) {
            document.getElementById('totalChecks').textContent =
                data.total_checks.toLocaleString();
            document.getElementById('allowedChecks').textContent =
                data.allowed_checks.toLocaleString();
            document.getElementById('deniedChecks').textContent =
                data.denied_checks.toLocaleString();
            document.getElementById('uniqueUsers').textContent =
                data.unique_users.toLocaleString();

            if (data.total_checks > 0) {
                const allowRate = ((data.allowed_checks / data.total_checks) * 100).toFixed(1);
                const denyRate = ((data.denied_checks / data.total_checks) * 100).toFixed(1);
                document.getElementById('allowRate').textContent = allowRate + '% allow rate';
                document.getElementById('denyRate').textContent = denyRate + '% deny rate';
            } else {
                document.getElementById('allowRate').textContent = '0% allow rate';
                document.getElementById('denyRate').textContent = '0% deny rate';
            }

            const tbody = document.getElementById('topUsersTable');
            if (data.top_users && data.top_users.length > 0) {
                tbody.innerHTML = data.top_users.map(user => {
                    const denyRate = ((user.denied_checks / user.total_checks) * 100).toFixed(1);
                    const lastSeen = new Date(user.last_check_at).toLocaleTimeString();

                    return ` + "`" + `
                        <tr>
                            <td><strong>${user.user_id}</strong></td>
                            <td>${user.total_checks.toLocaleString()}</td>
                            <td><span class="badge success">${user.allowed_checks}</span></td>
                            <td><span class="badge danger">${user.denied_checks}</span></td>
                            <td>${denyRate}%</td>
                            <td>${lastSeen}</td>
                        </tr>
                    ` + "`" + `;
                }).join('');
            } else {
                tbody.innerHTML = ` + "`" + `
                    <tr>
                        <td colspan="6" style="text-align: center; color: #999;">
                            No checks yet
                        </td>
                    </tr>
                ` + "`" + `;
            }
        }

        function startCountdown() {
            countdown = 2;
            document.getElementById('countdown').textContent = countdown;

            if (countdownInterval) clearInterval(countdownInterval);

            countdownInterval = setInterval(() => {
                countdown--;
                document.getElementById('countdown').textContent = countdown;

                if (countdown <= 0) {
                    countdown = 2;
                }
            }, 1000);
        }

        fetchMetrics();
        startCountdown();

        setInterval(() => {
            fetchMetrics();
            startCountdown();
        }, 2000);
    </script>
</body>
</html>`
